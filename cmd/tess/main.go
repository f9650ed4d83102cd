// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

// Command tess tessellates polygons read from GeoJSON, SVG or plain text
// files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
