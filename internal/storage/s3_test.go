package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArtifactPath_Format(t *testing.T) {
	ts := time.Date(2026, 9, 1, 8, 15, 42, 0, time.UTC)
	assert.Equal(t, "reports/20260901T081542Z.pdf", ArtifactPath(ts))
}

func TestArtifactPath_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2026, 9, 1, 13, 45, 42, 0, loc) // 08:15:42 UTC
	assert.Equal(t, "reports/20260901T081542Z.pdf", ArtifactPath(ts))
}

func TestArtifactPath_UniquePerSecond(t *testing.T) {
	a := ArtifactPath(time.Date(2026, 9, 1, 8, 15, 42, 0, time.UTC))
	b := ArtifactPath(time.Date(2026, 9, 1, 8, 15, 43, 0, time.UTC))
	assert.NotEqual(t, a, b)
}
