package rendering

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/sales-reporter/internal/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestBuildRows_PairsAssetsByProductID(t *testing.T) {
	img := pngBytes(t)
	selection := types.RankedSelection{
		{ProductID: "p3", Name: "Gizmo", Quantity: 5},
		{ProductID: "p1", Name: "Widget", Quantity: 5},
		{ProductID: "p2", Name: "Gadget", Quantity: 1},
	}
	assets := map[string]*types.ImageAsset{
		"p1": {ProductID: "p1", Data: img},
		"p2": {ProductID: "p2"},
		"p3": {ProductID: "p3"},
	}

	rows := BuildRows(selection, assets)
	require.Len(t, rows, 3)

	// Ranks are 1-based in selection order.
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Gizmo", rows[0].Name)
	assert.Equal(t, 3, rows[2].Rank)

	// The image lands on Widget's row despite its middle position.
	assert.Empty(t, rows[0].Image)
	assert.Equal(t, img, rows[1].Image)
	assert.Equal(t, "PNG", rows[1].ImageType)
	assert.Empty(t, rows[2].Image)
}

func TestBuildRows_MissingAssetEntry(t *testing.T) {
	selection := types.RankedSelection{
		{ProductID: "p1", Name: "Widget", Quantity: 2},
	}

	rows := BuildRows(selection, map[string]*types.ImageAsset{})
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Image)
}

func TestBuildRows_UndecodableBytesDropped(t *testing.T) {
	selection := types.RankedSelection{
		{ProductID: "p1", Name: "Widget", Quantity: 2},
	}
	assets := map[string]*types.ImageAsset{
		"p1": {ProductID: "p1", Data: []byte("not an image")},
	}

	rows := BuildRows(selection, assets)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Image)
	assert.Empty(t, rows[0].ImageType)
}

func TestRender_ProducesPDF(t *testing.T) {
	rows := []Row{
		{Rank: 1, Name: "Gizmo", Quantity: 5, Image: pngBytes(t), ImageType: "PNG"},
		{Rank: 2, Name: "Widget", Quantity: 5},
		{Rank: 3, Name: "Gadget", Quantity: 1},
	}

	data, err := Render("Weekly Sales Report", "Aug 25, 2026 - Aug 31, 2026", rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRender_NilImageRendersBlankCell(t *testing.T) {
	rows := []Row{
		{Rank: 1, Name: "Widget", Quantity: 3},
	}

	data, err := Render("Weekly Sales Report", "window", rows)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRender_EmptyRowsStillRendersHeader(t *testing.T) {
	data, err := Render("Weekly Sales Report", "Aug 25, 2026 - Aug 31, 2026", nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRender_ManyRowsPaginate(t *testing.T) {
	var rows []Row
	for i := 0; i < 20; i++ {
		rows = append(rows, Row{Rank: i + 1, Name: "Item", Quantity: i})
	}

	data, err := Render("Weekly Sales Report", "window", rows)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
