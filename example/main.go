// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

//go:build example

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/go-libtess2/libtess2"
)

var verbose = flag.Bool("v", false, "log sweep statistics")

func run(w io.Writer) error {
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync()
		libtess2.SetLogger(l)
	}

	contour := []libtess2.Vertex{
		{X: 0.0, Y: 3.0},
		{X: -1.0, Y: 0.0},
		{X: 1.6, Y: 1.9},
		{X: -1.6, Y: 1.9},
		{X: 1.0, Y: 0.0},
	}
	t, err := libtess2.NewTesselator(nil)
	if err != nil {
		return err
	}
	defer t.Destroy()

	if err := t.AddContour(contour); err != nil {
		return err
	}
	if err := t.Tesselate(libtess2.WindingNonzero, libtess2.Polygons, 3, 2, nil); err != nil {
		return err
	}

	v := t.Vertices()
	e := t.Elements()
	for i := 0; i < t.ElementCount(); i++ {
		tri := e[3*i : 3*i+3]
		fmt.Fprintf(w, "(%.1f, %.1f), (%.1f, %.1f), (%.1f, %.1f)\n",
			v[2*tri[0]], v[2*tri[0]+1],
			v[2*tri[1]], v[2*tri[1]+1],
			v[2*tri[2]], v[2*tri[2]+1])
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
