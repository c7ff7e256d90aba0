package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "fetching_assets", StateFetchingAssets.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestStatesAreOrdered(t *testing.T) {
	order := []State{
		StateIdle, StateQuerying, StateAggregating, StateSelecting,
		StateFetchingAssets, StateRendering, StatePersisting,
		StateRecordingMetadata, StateRetrieving, StateDispatching,
		StateCompleted,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, int(order[i]), int(order[i-1]))
	}
}
