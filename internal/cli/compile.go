package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
	"github.com/mapscript/mapscript/pkg/render"
)

// compileCommand creates the compile command, which turns a MapScript
// document into DOT text or a rendered image.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		scale      float64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a MapScript document",
		Long: `Compile a MapScript document to Graphviz DOT or a rendered image.

Compilation is best-effort: lines with problems are reported as warnings and
skipped, and the remaining lines still produce output. Use "mapscript check"
to lint a document without producing output.

Formats: dot, svg, png, pdf (comma-separated for several at once).
Output "-" writes a single format to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			prog := newProgress(c.Logger)

			src, err := os.ReadFile(args[0])
			if err != nil {
				return errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", args[0])
			}

			lines := mapscript.SplitLines(string(src))
			g := mapscript.Build(lines)
			dot := mapscript.Emit(g)

			for _, e := range g.Errors {
				printWarning("line %d: %s", e.Line, e.Message)
			}

			formats, err := parseFormats(formatsStr, c.Config.Format)
			if err != nil {
				return err
			}
			if scale <= 0 {
				scale = c.Config.Scale
			}
			if output == "-" && len(formats) > 1 {
				return errs.New(errs.ErrCodeInvalidInput, "stdout output supports a single format")
			}

			renderer := c.newRenderer(noCache)
			for _, f := range formats {
				data, err := c.renderFormat(cmd, renderer, dot, f, scale)
				if err != nil {
					return err
				}
				if output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				path := outputPath(args[0], output, f)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return errs.Wrap(errs.ErrCodeStorage, err, "write %s", path)
				}
				printFile(path)
			}

			printStats(len(g.Nodes), len(g.Edges), len(g.Clusters), false)
			prog.done("compiled", "file", args[0], "formats", formatsStr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, base path for several formats, or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (dot, svg, png, pdf)")
	cmd.Flags().Float64VarP(&scale, "scale", "s", 0, "raster scale factor for png output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// renderFormat produces the document in one output format, showing a spinner
// for the formats that invoke graphviz.
func (c *CLI) renderFormat(cmd *cobra.Command, renderer *render.Renderer, dot string, f render.Format, scale float64) ([]byte, error) {
	if f == render.FormatDOT {
		return []byte(dot), nil
	}

	sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s...", f))
	sp.Start()
	data, err := renderer.Render(cmd.Context(), dot, f, scale)
	if err != nil {
		sp.StopWithError(fmt.Sprintf("Rendering %s failed", f))
		return nil, err
	}
	sp.Stop()
	loggerFromContext(cmd.Context()).Debug("rendered", "format", f, "bytes", len(data))
	return data, nil
}

// parseFormats parses a comma-separated format string, falling back to the
// configured default when empty.
func parseFormats(s, fallback string) ([]render.Format, error) {
	if s == "" {
		s = fallback
	}
	if s == "" {
		s = string(render.FormatSVG)
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// outputPath decides where one format's output lands. An explicit output
// path with an extension is used verbatim; otherwise the format's extension
// is appended to the output base or the input's base name.
func outputPath(input, output string, f render.Format) string {
	if output != "" {
		if filepath.Ext(output) != "" {
			return output
		}
		return output + "." + string(f)
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + string(f)
}
