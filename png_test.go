package main

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmap/internal/board"
)

func TestRenderPNGNothingToExport(t *testing.T) {
	_, err := renderPNG(board.NewState(), cellMetrics{w: 8, h: 16})
	assert.EqualError(t, err, "nothing to export")
}

func TestRenderPNGOverMapImage(t *testing.T) {
	m := newTestModel(t)
	uri, err := board.EncodeDataURI(pngBytes(t, 320, 200))
	require.NoError(t, err)
	require.NoError(t, m.board.SetMapImage(uri))
	entry := addTruck(t, m, "Engine 5")
	_, err = m.board.AddMarker(board.Truck, entry.ID, 40, 40)
	require.NoError(t, err)

	data, err := m.exportPNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	r, g, b, _ := img.At(42, 48).RGBA()
	assert.Greater(t, r, uint32(0xf000), "marker pill in the truck color")
	assert.Less(t, g, uint32(0x8000))
	assert.Less(t, b, uint32(0x8000))
}

func TestRenderPNGWithoutImageFitsMarkers(t *testing.T) {
	m := newTestModel(t)
	entry := addTruck(t, m, "Engine 5")
	_, err := m.board.AddMarker(board.Truck, entry.ID, 100, 100)
	require.NoError(t, err)
	_, err = m.board.AddMarker(board.Truck, entry.ID, 300, 180)
	require.NoError(t, err)

	dc, err := renderPNG(m.board.State(), m.metrics())
	require.NoError(t, err)
	assert.Greater(t, dc.Width(), 200)
	assert.Greater(t, dc.Height(), 80)
	assert.Less(t, dc.Height(), 200)
}

func TestRenderPNGSkipsOrphans(t *testing.T) {
	state := board.NewState()
	state.Pieces = []board.Marker{{ID: "piece_1", Category: board.Crew, EntryID: "item_gone"}}

	_, err := renderPNG(state, cellMetrics{w: 8, h: 16})
	assert.EqualError(t, err, "nothing to export")
}
