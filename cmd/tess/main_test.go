// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gj "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-libtess2/libtess2"
)

const squareText = `0 0
2 0
2 2
0 2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs tess with args and returns its standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { libtess2.SetLogger(nil) })

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) result {
	t.Helper()
	var res result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestRunText(t *testing.T) {
	path := writeFile(t, "square.txt", squareText)
	out, err := execute(t, "", "run", "--no-color", path)
	require.NoError(t, err)

	res := decode(t, out)
	assert.Equal(t, "odd", res.Winding)
	assert.Equal(t, "polygons", res.Element)
	assert.Equal(t, 3, res.PolySize)
	assert.Equal(t, 2, res.VertexSize)
	assert.Equal(t, 4, res.VertexCount)
	assert.Len(t, res.Vertices, 8)
	assert.Equal(t, 2, res.ElementCount)
	assert.Len(t, res.Elements, 6)
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, squareText, "run", "--no-color", "--poly-size", "4")
	require.NoError(t, err)
	res := decode(t, out)
	assert.Equal(t, 1, res.ElementCount)
	assert.Equal(t, 4, res.PolySize)
}

func TestRunGeoJSON(t *testing.T) {
	path := writeFile(t, "shapes.geojson", `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [2, 2], [0, 2], [0, 0]]]}},
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Polygon", "coordinates": [[[1, 1], [3, 1], [3, 3], [1, 3], [1, 1]]]}}
		]
	}`)
	out, err := execute(t, "", "run", "--no-color",
		"--winding", "nonzero", "--element", "boundary_contours", "--format-out", "geojson", path)
	require.NoError(t, err)

	fc, err := gj.UnmarshalFeatureCollection([]byte(out))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.True(t, fc.Features[0].Geometry.IsLineString())
	// The union outline has eight corners, plus the closing position.
	assert.Len(t, fc.Features[0].Geometry.LineString, 9)
}

func TestRunSVG(t *testing.T) {
	path := writeFile(t, "shape.svg", `<svg xmlns="http://www.w3.org/2000/svg"><polygon points="0,0 4,0 4,4 0,4"/></svg>`)
	out, err := execute(t, "", "run", "--no-color", path)
	require.NoError(t, err)
	assert.Equal(t, 2, decode(t, out).ElementCount)
}

func TestRunConfigFile(t *testing.T) {
	cfg := writeFile(t, "tess.yaml", "winding: positive\nvertex-size: 3\n")
	path := writeFile(t, "square.txt", squareText)

	out, err := execute(t, "", "run", "--no-color", "--config", cfg, path)
	require.NoError(t, err)
	res := decode(t, out)
	assert.Equal(t, "positive", res.Winding)
	assert.Equal(t, 3, res.VertexSize)
	assert.Len(t, res.Vertices, 12)

	// Flags override the config file.
	out, err = execute(t, "", "run", "--no-color", "--config", cfg, "--winding", "negative", path)
	require.NoError(t, err)
	res = decode(t, out)
	assert.Equal(t, "negative", res.Winding)
	assert.Zero(t, res.ElementCount)
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("TESS_POLY_SIZE", "6")
	path := writeFile(t, "square.txt", squareText)
	out, err := execute(t, "", "run", "--no-color", path)
	require.NoError(t, err)
	res := decode(t, out)
	assert.Equal(t, 6, res.PolySize)
	assert.Equal(t, 1, res.ElementCount)
}

func TestRunPNG(t *testing.T) {
	png := filepath.Join(t.TempDir(), "out.png")
	path := writeFile(t, "square.txt", squareText)
	_, err := execute(t, "", "run", "--no-color", "--png", png, path)
	require.NoError(t, err)

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRunErrors(t *testing.T) {
	path := writeFile(t, "square.txt", squareText)
	for _, args := range [][]string{
		{"run", "--winding", "sideways", path},
		{"run", "--element", "triangles", path},
		{"run", "--normal", "1,2", path},
		{"run", "--format", "dxf", path},
		{"run", "--format-out", "xml", path},
		{"run", "--poly-size", "2", path},
		{"run", filepath.Join(t.TempDir(), "missing.txt")},
		{"run", "--config", filepath.Join(t.TempDir(), "missing.yaml"), path},
	} {
		_, err := execute(t, "", args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tess "), out)
}

func TestParseNormal(t *testing.T) {
	n, err := parseNormal(" 0, 0 ,1 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, n)

	n, err = parseNormal("")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = parseNormal("0,x,1")
	assert.Error(t, err)
}

func TestParseNames(t *testing.T) {
	for r := libtess2.WindingOdd; r <= libtess2.WindingAbsGeqTwo; r++ {
		got, err := parseWinding(strings.ToUpper(r.String()))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for et := libtess2.Polygons; et <= libtess2.BoundaryContours; et++ {
		got, err := parseElement(et.String())
		require.NoError(t, err)
		assert.Equal(t, et, got)
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, formatGeoJSON, detectFormat("a.GeoJSON"))
	assert.Equal(t, formatGeoJSON, detectFormat("a.json"))
	assert.Equal(t, formatSVG, detectFormat("a.svg"))
	assert.Equal(t, formatText, detectFormat("a.txt"))
	assert.Equal(t, formatText, detectFormat("-"))
}
