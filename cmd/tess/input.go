// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	gj "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"github.com/go-libtess2/libtess2"
	"github.com/go-libtess2/libtess2/geojson"
	"github.com/go-libtess2/libtess2/internal/contourio"
)

// Input formats.
const (
	formatAuto    = "auto"
	formatGeoJSON = "geojson"
	formatText    = "text"
	formatSVG     = "svg"
)

func detectFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".geojson":
		return formatGeoJSON
	case ".svg":
		return formatSVG
	}
	return formatText
}

// addFile adds the contours in the named file to t.  The name "-" reads
// standard input.
func addFile(t *libtess2.Tesselator, name, format string, stdin io.Reader) (int, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if format == formatAuto {
		format = detectFormat(name)
	}

	switch format {
	case formatGeoJSON:
		return addGeoJSON(t, data)
	case formatSVG:
		contours, err := contourio.ReadSVG(bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		return addContours(t, contours)
	case formatText:
		contours, err := contourio.ReadText(bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		return addContours(t, contours)
	}
	return 0, errors.Errorf("unknown input format %q", format)
}

func addContours(t *libtess2.Tesselator, contours [][]float64) (int, error) {
	for i, c := range contours {
		if err := t.AddContourData(contourio.Size, c, 0, len(c)/contourio.Size); err != nil {
			return i, errors.Wrapf(err, "contour %d", i)
		}
	}
	return len(contours), nil
}

// addGeoJSON accepts a FeatureCollection, a Feature or a bare geometry.
func addGeoJSON(t *libtess2.Tesselator, data []byte) (int, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, errors.Wrap(err, "decoding geojson")
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := gj.UnmarshalFeatureCollection(data)
		if err != nil {
			return 0, errors.Wrap(err, "decoding geojson")
		}
		return len(fc.Features), geojson.AddFeatureCollection(t, fc)
	case "Feature":
		f, err := gj.UnmarshalFeature(data)
		if err != nil {
			return 0, errors.Wrap(err, "decoding geojson")
		}
		return 1, geojson.AddGeometry(t, f.Geometry)
	}
	g, err := gj.UnmarshalGeometry(data)
	if err != nil {
		return 0, errors.Wrap(err, "decoding geojson")
	}
	return 1, geojson.AddGeometry(t, g)
}
