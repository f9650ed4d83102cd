// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

// Package render draws tessellation results for inspection.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/go-libtess2/libtess2"
)

// Options controls the appearance of a drawing.
type Options struct {
	// Size is the length of the longer image side in pixels.
	Size int
	// Padding is the margin around the drawing in pixels.
	Padding int

	Background color.Color
	Fill       color.Color
	Stroke     color.Color
	// Synthesized marks vertices created at intersections.
	Synthesized color.Color

	LineWidth float64
}

// DefaultOptions draws green polygons with cyan edges on black.
var DefaultOptions = Options{
	Size:        512,
	Padding:     10,
	Background:  color.Black,
	Fill:        color.RGBA{0, 128, 0, 255},
	Stroke:      color.RGBA{0, 255, 255, 255},
	Synthesized: color.RGBA{255, 0, 0, 255},
	LineWidth:   2,
}

func (o Options) withDefaults() Options {
	d := DefaultOptions
	if o.Size > 0 {
		d.Size = o.Size
	}
	if o.Padding > 0 {
		d.Padding = o.Padding
	}
	if o.Background != nil {
		d.Background = o.Background
	}
	if o.Fill != nil {
		d.Fill = o.Fill
	}
	if o.Stroke != nil {
		d.Stroke = o.Stroke
	}
	if o.Synthesized != nil {
		d.Synthesized = o.Synthesized
	}
	if o.LineWidth > 0 {
		d.LineWidth = o.LineWidth
	}
	return d
}

// Draw renders the last result of t.  Polygons are filled and outlined;
// boundary contours are outlined only.  The y axis points up.
func Draw(t *libtess2.Tesselator, opts Options) image.Image {
	opts = opts.withDefaults()

	vs := t.Vertices()
	n := t.VertexSize()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < t.VertexCount(); i++ {
		x, y := vs[i*n], vs[i*n+1]
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	if t.VertexCount() == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	// Set up the context
	pad := float64(opts.Padding)
	extent := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if extent > 0 {
		scale = (float64(opts.Size) - 2*pad) / extent
	}
	width := int(math.Ceil(scale*(maxX-minX) + 2*pad))
	height := int(math.Ceil(scale*(maxY-minY) + 2*pad))
	c := gg.NewContext(max(width, 1), max(height, 1))
	c.SetColor(opts.Background)
	c.Clear()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(c.Height()))
	c.Scale(1, -1)
	c.Translate(pad, pad)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	moveTo := func(idx int, first bool) {
		x, y := vs[idx*n], vs[idx*n+1]
		if first {
			c.MoveTo(x, y)
		} else {
			c.LineTo(x, y)
		}
	}

	elems := t.Elements()
	c.SetLineWidth(opts.LineWidth / scale)
	switch t.ElementType() {
	case libtess2.BoundaryContours:
		for i := 0; i < t.ElementCount(); i++ {
			base, count := elems[2*i], elems[2*i+1]
			for j := 0; j < count; j++ {
				moveTo(base+j, j == 0)
			}
			c.ClosePath()
		}
		c.SetColor(opts.Stroke)
		c.Stroke()

	default:
		polySize := t.PolySize()
		stride := polySize
		if t.ElementType() == libtess2.ConnectedPolygons {
			stride *= 2
		}
		for i := 0; i < t.ElementCount(); i++ {
			for j, idx := range elems[i*stride : i*stride+polySize] {
				if idx == libtess2.Undef {
					break
				}
				moveTo(idx, j == 0)
			}
			c.ClosePath()
			c.SetColor(opts.Fill)
			c.FillPreserve()
			c.SetColor(opts.Stroke)
			c.Stroke()
		}
	}

	c.SetColor(opts.Synthesized)
	for i, src := range t.VertexIndices() {
		if src == libtess2.Undef {
			c.DrawCircle(vs[i*n], vs[i*n+1], 2*opts.LineWidth/scale)
			c.Fill()
		}
	}
	return c.Image()
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	return errors.Wrapf(gg.SavePNG(path, img), "saving %s", path)
}
