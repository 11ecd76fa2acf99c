package main

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"crewmap/internal/board"
)

// picture is the map image scaled to the cell grid. Each cell shows two
// vertical pixels through an upper half block: fg is the top pixel, bg the
// bottom one.
type picture struct {
	width  int
	height int
	cols   int
	rows   int
	fg     [][]string
	bg     [][]string
	err    error
}

type pictureCache struct {
	uri     string
	metrics cellMetrics
	pic     *picture
}

// get returns the picture for uri, decoding it only when the image or the
// cell metrics changed since the last call.
func (c *pictureCache) get(uri string, metrics cellMetrics) *picture {
	if uri == "" {
		c.uri, c.pic = "", nil
		return nil
	}
	if c.pic != nil && c.uri == uri && c.metrics == metrics {
		return c.pic
	}
	c.uri, c.metrics = uri, metrics
	c.pic = newPicture(uri, metrics)
	return c.pic
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func newPicture(uri string, metrics cellMetrics) *picture {
	img, err := board.DecodeImage(uri)
	if err != nil {
		return &picture{err: err}
	}

	bounds := img.Bounds()
	p := &picture{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		cols:   ceilDiv(bounds.Dx(), metrics.w),
		rows:   ceilDiv(bounds.Dy(), metrics.h),
	}
	if p.cols == 0 || p.rows == 0 {
		p.err = fmt.Errorf("map image is empty")
		return p
	}

	scaled := image.NewRGBA(image.Rect(0, 0, p.cols, p.rows*2))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Src, nil)

	p.fg = make([][]string, p.rows)
	p.bg = make([][]string, p.rows)
	for r := 0; r < p.rows; r++ {
		p.fg[r] = make([]string, p.cols)
		p.bg[r] = make([]string, p.cols)
		for c := 0; c < p.cols; c++ {
			p.fg[r][c] = hexColor(scaled.RGBAAt(c, r*2))
			p.bg[r][c] = hexColor(scaled.RGBAAt(c, r*2+1))
		}
	}
	return p
}

func hexColor(c color.RGBA) string {
	if c.A == 0 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
