package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"crewmap/internal/board"
)

const pngPadding = 16.0

type pngMarker struct {
	marker board.Marker
	text   string
	width  float64
}

func markerFace(metrics cellMetrics) (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    float64(metrics.h) * 0.75,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// renderPNG draws the markers over the map image. Without an image the
// canvas is white and just large enough for the markers.
func renderPNG(state *board.State, metrics cellMetrics) (*gg.Context, error) {
	face, err := markerFace(metrics)
	if err != nil {
		return nil, err
	}

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	var markers []pngMarker
	for _, p := range state.Pieces {
		entry, ok := state.Entry(p)
		if !ok {
			continue
		}
		text := sanitizeText(entry.Name)
		w, _ := measure.MeasureString(text)
		markers = append(markers, pngMarker{marker: p, text: text, width: w + float64(metrics.w)})
	}

	var dc *gg.Context
	originX, originY := 0.0, 0.0
	if state.MapImage != "" {
		img, err := board.DecodeImage(state.MapImage)
		if err != nil {
			return nil, fmt.Errorf("decode map image: %w", err)
		}
		dc = gg.NewContextForImage(img)
	} else {
		if len(markers) == 0 {
			return nil, fmt.Errorf("nothing to export")
		}
		minX, minY := float64(markers[0].marker.X), float64(markers[0].marker.Y)
		maxX, maxY := minX, minY
		for _, pm := range markers {
			x, y := float64(pm.marker.X), float64(pm.marker.Y)
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x+pm.width)
			maxY = max(maxY, y+float64(metrics.h))
		}
		originX, originY = minX-pngPadding, minY-pngPadding
		dc = gg.NewContext(int(maxX-originX+pngPadding), int(maxY-originY+pngPadding))
		dc.SetColor(color.White)
		dc.Clear()
	}

	dc.SetFontFace(face)
	h := float64(metrics.h)
	for _, pm := range markers {
		x := float64(pm.marker.X) - originX
		y := float64(pm.marker.Y) - originY
		dc.SetHexColor(categoryColors[pm.marker.Category])
		dc.DrawRoundedRectangle(x, y, pm.width, h, h/2)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawStringAnchored(pm.text, x+pm.width/2, y+h/2, 0.5, 0.35)
	}
	return dc, nil
}

func encodePNG(state *board.State, metrics cellMetrics) ([]byte, error) {
	dc, err := renderPNG(state, metrics)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *model) exportPNG() ([]byte, error) {
	return encodePNG(m.board.State(), m.metrics())
}
