// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

// Package contourio reads contours from plain text and SVG files.
//
// Every contour is returned as a flat list of x, y, z coordinates, three
// per vertex.
package contourio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"
)

// Size is the number of coordinates per vertex in the returned contours.
const Size = 3

// ReadText reads contours written one vertex per line as "x y" or
// "x y z".  An empty line ends a contour; lines starting with '#' are
// ignored.
func ReadText(r io.Reader) ([][]float64, error) {
	var contours [][]float64
	var points []float64
	flush := func() {
		if len(points) > 0 {
			contours = append(contours, points)
			points = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, errors.Errorf("line %d: want 2 or 3 coordinates, got %d", n, len(fields))
		}
		var p [Size]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			p[i] = v
		}
		points = append(points, p[:]...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading contours")
	}
	flush()
	return contours, nil
}

// ReadSVG reads the outlines of the polygon, polyline and rect elements of
// an SVG document in document order.  Transforms are not applied.
func ReadSVG(r io.Reader) ([][]float64, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	var contours [][]float64
	var walk func(el *svgparser.Element) error
	walk = func(el *svgparser.Element) error {
		var c []float64
		var err error
		switch el.Name {
		case "polygon", "polyline":
			c, err = parsePoints(el.Attributes["points"])
		case "rect":
			c, err = parseRect(el.Attributes)
		}
		if err != nil {
			return errors.Wrapf(err, "<%s>", el.Name)
		}
		if len(c) > 0 {
			contours = append(contours, c)
		}
		for _, child := range el.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return contours, nil
}

// parsePoints parses an SVG points list such as "0,0 10,0 10 10".
func parsePoints(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", s)
	}
	out := make([]float64, 0, len(fields)/2*Size)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		out = append(out, x, y, 0)
	}
	return out, nil
}

func parseRect(attrs map[string]string) ([]float64, error) {
	var v [4]float64
	for i, name := range []string{"x", "y", "width", "height"} {
		s, ok := attrs[name]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %s", name)
		}
		v[i] = f
	}
	x, y, w, h := v[0], v[1], v[2], v[3]
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	return []float64{x, y, 0, x + w, y, 0, x + w, y + h, 0, x, y + h, 0}, nil
}
