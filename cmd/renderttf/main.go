// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Command renderttf rasterizes a line of text from a TrueType font onto a
// PNG image.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"

	"github.com/glyphrender/ttfrender/raster"
	"github.com/glyphrender/ttfrender/render"
	"github.com/glyphrender/ttfrender/sfnt"
)

var (
	fontfile = flag.String("font", "", "filename of the TrueType font to render")
	text     = flag.String("text", "", "text to render")
	height   = flag.Float64("height", 64, "target pixel height")
	out      = flag.String("out", "out.png", "output PNG path")
)

func main() {
	flag.Parse()

	if *fontfile == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "renderttf: -font and -text are required")
		os.Exit(1)
	}

	fontData, err := ioutil.ReadFile(*fontfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderttf: failed to read font from %s: %v\n", *fontfile, err)
		os.Exit(1)
	}

	f, err := sfnt.Parse(fontData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderttf: failed to parse font from %s: %v\n", *fontfile, err)
		os.Exit(1)
	}

	ctx := render.NewContext(f, *height)
	scale := float64(*height) / 1.3
	canvas := raster.NewCanvas(int(scale*float64(len(*text)))+int(*height), int(*height)+4)

	advance, err := ctx.RenderText(canvas, *text, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderttf: render failed: %v\n", err)
		os.Exit(1)
	}

	img := image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			img.Set(x, y, white)
		}
	}
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			c := canvas.At(x, y)
			if c != (raster.Color{}) {
				img.Set(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}

	w, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderttf: failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer w.Close()
	if err := png.Encode(w, img); err != nil {
		fmt.Fprintf(os.Stderr, "renderttf: failed to encode PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("renderttf: wrote %s, total advance %.1fpx\n", *out, advance)
}
