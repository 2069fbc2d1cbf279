package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
)

// checkCommand creates the check command, which lints a document without
// producing output.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Lint a MapScript document",
		Long: `Check a MapScript document for problems without producing output.

Every problem line is reported with its line number. The exit status is
non-zero when the document has problems.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", args[0])
			}

			g := mapscript.Build(mapscript.SplitLines(string(src)))

			if len(g.Errors) == 0 {
				printSuccess("%s has no problems", args[0])
				printStats(len(g.Nodes), len(g.Edges), len(g.Clusters), false)
				return nil
			}

			printError("%s has %d problem(s)", args[0], len(g.Errors))
			for _, e := range g.Errors {
				printLineProblem(e.Line, e.Message, strings.TrimSpace(e.Text))
			}
			return errs.New(errs.ErrCodeInvalidSource, "%d problem(s) found", len(g.Errors))
		},
	}
}
