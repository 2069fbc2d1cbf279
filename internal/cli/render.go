package cli

import (
	"os"

	"github.com/spf13/cobra"

	errs "github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
	"github.com/mapscript/mapscript/pkg/render"
)

// renderCommand creates the render command, which compiles a document and
// renders it in a single output format. It is the image-producing sibling of
// compile; rendered output is served from the cache when the document has
// not changed.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		format  string
		scale   float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a MapScript document to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			prog := newProgress(c.Logger)

			src, err := os.ReadFile(args[0])
			if err != nil {
				return errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", args[0])
			}

			g := mapscript.Build(mapscript.SplitLines(string(src)))
			dot := mapscript.Emit(g)

			for _, e := range g.Errors {
				printWarning("line %d: %s", e.Line, e.Message)
			}

			if format == "" {
				format = c.Config.Format
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if scale <= 0 {
				scale = c.Config.Scale
			}

			renderer := c.newRenderer(noCache)
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
			printStats(len(g.Nodes), len(g.Edges), len(g.Clusters), false)
			prog.done("rendered", "file", args[0], "format", string(f))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (dot, svg, png, pdf)")
	cmd.Flags().Float64VarP(&scale, "scale", "s", 0, "raster scale factor for png output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")

	return cmd
}
