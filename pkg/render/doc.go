// Package render turns emitted DOT text into image artifacts.
//
// # Overview
//
// This package contains the rendering half of the pipeline: the compiler
// produces DOT, render produces bytes you can put on a screen or in a file.
// It provides:
//
//   - In-process SVG rendering via Graphviz
//   - Generic format conversion (SVG to PDF/PNG)
//   - A cache-aware [Renderer] used by the CLI and the edit server
//
// # SVG Rendering
//
// [SVG] runs Graphviz in process (no system graphviz install needed) and
// normalizes the resulting viewBox so the artifact scales cleanly when
// embedded:
//
//	svg, err := render.SVG(ctx, dot)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Caching
//
// [Renderer] wraps the render functions with a byte cache keyed on the DOT
// hash, so re-rendering an unchanged diagram never touches Graphviz:
//
//	r := render.New(fileCache, nil, 24*time.Hour)
//	out, err := r.Render(ctx, dot, render.FormatSVG, 1.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package render
