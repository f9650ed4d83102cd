// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-libtess2/libtess2"
	"github.com/go-libtess2/libtess2/geojson"
	"github.com/go-libtess2/libtess2/internal/render"
)

func newRunCmd() *subCommand {
	sc := &subCommand{EnvPrefix: "TESS"}
	sc.Cmd = &cobra.Command{
		Use:   "run [files...]",
		Short: "Tessellate the contours in the given files",
		Long: `
run adds every contour found in the given files to one tessellation and
writes the result to standard output.  With no files, or with "-",
standard input is read.  The input format is taken from the file
extension unless --format is given: .json and .geojson are GeoJSON, .svg
is SVG, anything else is text with one "x y [z]" vertex per line and
blank lines between contours.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseRunOptions(sc)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			return run(cmd, opts, args)
		},
	}

	flags := sc.Cmd.Flags()
	flags.String("winding", "odd", "Winding rule, one of [odd, nonzero, positive, negative, abs_geq_two].")
	flags.String("element", "polygons", "Output, one of [polygons, connected_polygons, boundary_contours].")
	flags.Int("poly-size", 3, "Maximum number of vertices per output polygon.")
	flags.Int("vertex-size", 2, "Number of coordinates per output vertex.")
	flags.String("normal", "", "Projection normal as x,y,z. Computed from the input if empty.")
	flags.Bool("no-empty", false, "Skip output polygons without area.")
	flags.Int("extra-vertices", 0, "Event queue slots reserved for intersection vertices.")
	flags.Bool("no-grow", false, "Fail instead of growing the event queue.")
	flags.String("format", formatAuto, "Input format, one of [auto, geojson, text, svg].")
	flags.String("format-out", "json", "Output format, one of [json, geojson].")
	flags.String("png", "", "Also draw the result to this PNG file.")
	flags.Bool("imgcat", false, "Show the drawing inline in the terminal.")
	flags.Bool("no-color", false, "Disable colours in the summary.")
	return sc
}

type runOptions struct {
	winding    libtess2.WindingRule
	element    libtess2.ElementType
	polySize   int
	vertexSize int
	normal     []float64
	noEmpty    bool
	alloc      libtess2.Alloc
	format     string
	formatOut  string
	png        string
	imgcat     bool
	color      bool
}

func parseWinding(s string) (libtess2.WindingRule, error) {
	for r := libtess2.WindingOdd; r <= libtess2.WindingAbsGeqTwo; r++ {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, errors.Errorf("unknown winding rule %q", s)
}

func parseElement(s string) (libtess2.ElementType, error) {
	for et := libtess2.Polygons; et <= libtess2.BoundaryContours; et++ {
		if strings.EqualFold(s, et.String()) {
			return et, nil
		}
	}
	return 0, errors.Errorf("unknown element type %q", s)
}

func parseNormal(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, errors.Errorf("normal %q: want x,y,z", s)
	}
	n := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "normal %q", s)
		}
		n[i] = v
	}
	return n, nil
}

func parseRunOptions(sc *subCommand) (*runOptions, error) {
	conf := sc.Conf
	opts := &runOptions{
		polySize:   conf.GetInt("poly-size"),
		vertexSize: conf.GetInt("vertex-size"),
		noEmpty:    conf.GetBool("no-empty"),
		alloc: libtess2.Alloc{
			ExtraVertices: conf.GetInt("extra-vertices"),
			NoGrow:        conf.GetBool("no-grow"),
		},
		format:    strings.ToLower(conf.GetString("format")),
		formatOut: strings.ToLower(conf.GetString("format-out")),
		png:       conf.GetString("png"),
		imgcat:    conf.GetBool("imgcat"),
		color:     !conf.GetBool("no-color"),
	}

	var err error
	if opts.winding, err = parseWinding(conf.GetString("winding")); err != nil {
		return nil, err
	}
	if opts.element, err = parseElement(conf.GetString("element")); err != nil {
		return nil, err
	}
	if opts.normal, err = parseNormal(conf.GetString("normal")); err != nil {
		return nil, err
	}
	switch opts.format {
	case formatAuto, formatGeoJSON, formatText, formatSVG:
	default:
		return nil, errors.Errorf("unknown input format %q", opts.format)
	}
	switch opts.formatOut {
	case "json", "geojson":
	default:
		return nil, errors.Errorf("unknown output format %q", opts.formatOut)
	}
	return opts, nil
}

func run(cmd *cobra.Command, opts *runOptions, files []string) error {
	log := libtess2.Logger()

	t, err := libtess2.NewTesselator(&opts.alloc)
	if err != nil {
		return err
	}
	defer t.Destroy()
	t.SetNoEmptyPolygons(opts.noEmpty)

	for _, name := range files {
		n, err := addFile(t, name, opts.format, cmd.InOrStdin())
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}
		log.Debug("read input", zap.String("file", name), zap.Int("shapes", n))
	}

	if err := t.Tesselate(opts.winding, opts.element, opts.polySize, opts.vertexSize, opts.normal); err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), t, opts); err != nil {
		return err
	}

	if opts.png != "" || opts.imgcat {
		if err := draw(t, opts); err != nil {
			return err
		}
	}

	au := aurora.NewAurora(opts.color)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %d vertices, %d elements\n",
		au.Green("tessellated"),
		au.Cyan(opts.element),
		au.Bold(t.VertexCount()),
		au.Bold(t.ElementCount()))
	return nil
}

// result is the json output format.
type result struct {
	Winding       string    `json:"winding"`
	Element       string    `json:"element"`
	PolySize      int       `json:"poly_size,omitempty"`
	VertexSize    int       `json:"vertex_size"`
	VertexCount   int       `json:"vertex_count"`
	Vertices      []float64 `json:"vertices"`
	VertexIndices []int     `json:"vertex_indices"`
	ElementCount  int       `json:"element_count"`
	Elements      []int     `json:"elements"`
}

func writeResult(w io.Writer, t *libtess2.Tesselator, opts *runOptions) error {
	if opts.formatOut == "geojson" {
		fc, err := geojson.Result(t)
		if err != nil {
			return err
		}
		data, err := fc.MarshalJSON()
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return errors.WithStack(err)
	}

	res := result{
		Winding:       opts.winding.String(),
		Element:       opts.element.String(),
		VertexSize:    t.VertexSize(),
		VertexCount:   t.VertexCount(),
		Vertices:      t.Vertices(),
		VertexIndices: t.VertexIndices(),
		ElementCount:  t.ElementCount(),
		Elements:      t.Elements(),
	}
	if opts.element != libtess2.BoundaryContours {
		res.PolySize = opts.polySize
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(res))
}

func draw(t *libtess2.Tesselator, opts *runOptions) error {
	path := opts.png
	if path == "" {
		f, err := os.CreateTemp("", "tess-*.png")
		if err != nil {
			return errors.WithStack(err)
		}
		path = f.Name()
		f.Close()
		defer os.Remove(path)
	}
	if err := render.SavePNG(filepath.Clean(path), render.Draw(t, render.Options{})); err != nil {
		return err
	}
	if opts.imgcat {
		imgcat.CatFile(path, os.Stdout)
	}
	return nil
}
