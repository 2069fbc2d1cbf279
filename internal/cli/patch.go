package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
)

// patchCommand creates the patch command group. Each subcommand rewrites a
// single declaration line in place and leaves every other byte of the file
// untouched.
func (c *CLI) patchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Rewrite a single declaration in a document",
		Long: `Patch one node, edge, or cluster declaration in a MapScript document.

Only the bracket of the targeted line changes; comments, unmanaged
attributes, and all other lines are preserved byte for byte. Passing an
empty value for a flag removes that attribute.`,
	}

	cmd.AddCommand(c.patchNodeCommand())
	cmd.AddCommand(c.patchEdgeCommand())
	cmd.AddCommand(c.patchClusterCommand())

	return cmd
}

// patchNodeCommand creates the "patch node" subcommand.
func (c *CLI) patchNodeCommand() *cobra.Command {
	var colour, border, shape, textSize string

	cmd := &cobra.Command{
		Use:   "node [file] [id]",
		Short: "Patch a node definition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateNodeID(args[1]); err != nil {
				return err
			}
			p := mapscript.NodePatch{
				Colour:   changedFlag(cmd, "colour", colour),
				Border:   changedFlag(cmd, "border", border),
				Shape:    changedFlag(cmd, "shape", shape),
				TextSize: changedFlag(cmd, "text-size", textSize),
			}
			return c.applyPatch(args[0], fmt.Sprintf("node %s", args[1]), func(lines []string) bool {
				return mapscript.PatchNode(lines, args[1], p)
			})
		},
	}

	cmd.Flags().StringVar(&colour, "colour", "", "fill colour")
	cmd.Flags().StringVar(&border, "border", "", "border spec, e.g. \"2px dashed blue\"")
	cmd.Flags().StringVar(&shape, "shape", "", "node shape")
	cmd.Flags().StringVar(&textSize, "text-size", "", "label text size")

	return cmd
}

// patchEdgeCommand creates the "patch edge" subcommand. Edges are addressed
// by the 1-based line number of their declaration.
func (c *CLI) patchEdgeCommand() *cobra.Command {
	var label, border, labelStyle, labelSize string

	cmd := &cobra.Command{
		Use:   "edge [file] [line]",
		Short: "Patch an edge declaration by line number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineNo, err := strconv.Atoi(args[1])
			if err != nil {
				return errs.New(errs.ErrCodeInvalidInput, "invalid line number %q", args[1])
			}
			p := mapscript.EdgePatch{
				Label:      changedFlag(cmd, "label", label),
				Border:     changedFlag(cmd, "border", border),
				LabelStyle: changedFlag(cmd, "label-style", labelStyle),
				LabelSize:  changedFlag(cmd, "label-size", labelSize),
			}
			return c.applyPatch(args[0], fmt.Sprintf("edge at line %d", lineNo), func(lines []string) bool {
				return mapscript.PatchEdge(lines, lineNo, p)
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "edge label")
	cmd.Flags().StringVar(&border, "border", "", "line spec, e.g. \"2px dotted\"")
	cmd.Flags().StringVar(&labelStyle, "label-style", "", "label style")
	cmd.Flags().StringVar(&labelSize, "label-size", "", "label text size")

	return cmd
}

// patchClusterCommand creates the "patch cluster" subcommand.
func (c *CLI) patchClusterCommand() *cobra.Command {
	var colour, border, textColour, textSize string

	cmd := &cobra.Command{
		Use:   "cluster [file] [id]",
		Short: "Patch a cluster marker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateClusterID(args[1]); err != nil {
				return err
			}
			p := mapscript.ClusterPatch{
				Colour:     changedFlag(cmd, "colour", colour),
				Border:     changedFlag(cmd, "border", border),
				TextColour: changedFlag(cmd, "text-colour", textColour),
				TextSize:   changedFlag(cmd, "text-size", textSize),
			}
			return c.applyPatch(args[0], args[1], func(lines []string) bool {
				return mapscript.PatchCluster(lines, args[1], p)
			})
		},
	}

	cmd.Flags().StringVar(&colour, "colour", "", "background colour")
	cmd.Flags().StringVar(&border, "border", "", "border spec")
	cmd.Flags().StringVar(&textColour, "text-colour", "", "title text colour")
	cmd.Flags().StringVar(&textSize, "text-size", "", "title text size")

	return cmd
}

// applyPatch reads the file, applies one patch function to its lines, and
// writes the result back when the target was found.
func (c *CLI) applyPatch(path, target string, patch func([]string) bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
	}

	lines := mapscript.SplitLines(string(src))
	if !patch(lines) {
		return errs.New(errs.ErrCodeUnlocatableTarget, "%s not found in %s", target, path)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write %s", path)
	}

	printSuccess("patched %s", target)
	printFile(path)
	return nil
}

// changedFlag returns the flag value as a patch pointer, or nil when the
// flag was not set. This keeps "not given" distinct from "given empty",
// which the patch types use to mean delete.
func changedFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return mapscript.Set(value)
}
