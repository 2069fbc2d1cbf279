package mapscript

import (
	"fmt"
	"strings"
)

// Emission defaults, applied here rather than at parse time so Settings can
// distinguish "explicitly set" from "absent".
const (
	defaultTitleSize = 20
	defaultRanksep   = 0.5
	defaultNodesep   = 0.25
)

// Emit serializes a built graph as DOT with fully deterministic ordering:
// graph directives, then top-level clusters depth-first, then unclustered
// nodes in first-seen order, then edges in source order.
//
// Every node statement carries id="node--<id>" and every edge statement
// id="edge--<line>--<from>--<to>", so the renderer's output elements map
// back to source locations. The double-dash delimiter survives transforms
// that sanitize identifier characters.
func Emit(g *Graph) string {
	e := emitter{g: g}
	var b strings.Builder

	b.WriteString("digraph {\n")
	e.graphDirectives(&b)
	b.WriteString("\n")

	inCluster := map[string]bool{}
	for _, c := range g.Clusters {
		for _, id := range c.NodeIDs {
			inCluster[id] = true
		}
	}

	for _, c := range g.TopLevel() {
		e.cluster(&b, c, 1)
	}
	for _, n := range g.Nodes {
		if !inCluster[n.ID] {
			e.node(&b, n, 1)
		}
	}
	if len(g.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, edge := range g.Edges {
		e.edge(&b, edge)
	}

	b.WriteString("}\n")
	return b.String()
}

type emitter struct {
	g *Graph
}

func (e *emitter) graphDirectives(b *strings.Builder) {
	s := e.g.Settings

	if s.Background != "" {
		fmt.Fprintf(b, "  bgcolor=%s;\n", quote(s.Background))
	}
	if s.Title != "" {
		size := s.TitleSize
		if size == 0 {
			size = defaultTitleSize
		}
		fmt.Fprintf(b, "  label=%s;\n", quote(s.Title))
		fmt.Fprintf(b, "  labelloc=%s;\n", quote(s.TitlePosition.Labelloc()))
		fmt.Fprintf(b, "  fontsize=%d;\n", size)
	}
	if s.TextColour != "" {
		fmt.Fprintf(b, "  fontcolor=%s;\n", quote(s.TextColour))
	}
	fmt.Fprintf(b, "  rankdir=%s;\n", s.Direction.Rankdir())
	fmt.Fprintf(b, "  ranksep=%s;\n", trimFloat(defaultRanksep*scaleOr(s.SpacingAlong)))
	fmt.Fprintf(b, "  nodesep=%s;\n", trimFloat(defaultNodesep*scaleOr(s.SpacingAcross)))
}

// cluster emits one subgraph block and recurses into its children.
func (e *emitter) cluster(b *strings.Builder, c *Cluster, depth int) {
	s := e.g.Settings
	pad := strings.Repeat("  ", depth)

	fmt.Fprintf(b, "%ssubgraph %s {\n", pad, c.ID)
	if c.Label != "" {
		fmt.Fprintf(b, "%s  label=%s;\n", pad, quote(c.Label))
	}
	var styles []string
	if c.Attrs.Colour != "" {
		styles = addStyle(styles, "filled")
		fmt.Fprintf(b, "%s  fillcolor=%s;\n", pad, quote(c.Attrs.Colour))
	}
	if br := c.Attrs.Border; br != nil {
		if br.Colour != "" {
			fmt.Fprintf(b, "%s  color=%s;\n", pad, quote(br.Colour))
		}
		if br.HasWidth {
			fmt.Fprintf(b, "%s  penwidth=%d;\n", pad, br.Width)
		}
		if br.Style != "" && br.Style != "solid" {
			styles = addStyle(styles, br.Style)
		}
	}
	if len(styles) > 0 {
		fmt.Fprintf(b, "%s  style=%s;\n", pad, quote(strings.Join(styles, ",")))
	}
	if fc := firstOf(c.Attrs.TextColour, s.GroupTextColour, s.TextColour); fc != "" {
		fmt.Fprintf(b, "%s  fontcolor=%s;\n", pad, quote(fc))
	}
	if c.Attrs.TextSize > 0 {
		fmt.Fprintf(b, "%s  fontsize=%d;\n", pad, c.Attrs.TextSize)
	}

	for _, id := range c.NodeIDs {
		if n := e.g.Node(id); n != nil {
			e.node(b, n, depth+1)
		}
	}
	for _, child := range c.Children {
		e.cluster(b, child, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", pad)
}

// node emits one node statement with settings-derived defaults merged under
// any explicit attributes. The merge is per key and set-like for style
// flags, so emitting a node that already received defaults at definition
// time produces the same statement.
func (e *emitter) node(b *strings.Builder, n *Node, depth int) {
	s := e.g.Settings
	attrs := []string{
		fmt.Sprintf("label=%s", quote(wrappedLabel(n.Label, s.LabelWrap))),
		fmt.Sprintf("id=%s", quote("node--"+n.ID)),
	}

	var styles []string
	if fill := firstOf(n.Attrs.Colour, s.NodeColour); fill != "" {
		styles = addStyle(styles, "filled")
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", quote(fill)))
	}
	shape := firstOf(n.Attrs.Shape, s.NodeShape)
	switch shape {
	case "":
		// Renderer default.
	case "rounded":
		styles = addStyle(styles, "rounded")
	default:
		attrs = append(attrs, fmt.Sprintf("shape=%s", quote(shape)))
	}

	border := n.Attrs.Border
	if border == nil {
		border = s.NodeBorder
	}
	if border != nil {
		if border.Colour != "" {
			attrs = append(attrs, fmt.Sprintf("color=%s", quote(border.Colour)))
		}
		if border.HasWidth {
			attrs = append(attrs, fmt.Sprintf("penwidth=%d", border.Width))
		}
		if border.Style != "" && border.Style != "solid" {
			styles = addStyle(styles, border.Style)
		}
	}
	if len(styles) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=%s", quote(strings.Join(styles, ","))))
	}

	if fc := firstOf(s.NodeTextColour, s.TextColour); fc != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%s", quote(fc)))
	}
	if n.Attrs.TextSize > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%d", n.Attrs.TextSize))
	}
	if s.NodeShadow {
		attrs = append(attrs, fmt.Sprintf("class=%s", quote("shadow")))
	}

	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s [%s];\n", pad, quote(n.ID), strings.Join(attrs, ", "))
}

func (e *emitter) edge(b *strings.Builder, edge *Edge) {
	s := e.g.Settings
	attrs := []string{
		fmt.Sprintf("id=%s", quote(fmt.Sprintf("edge--%d--%s--%s", edge.Line, edge.From, edge.To))),
	}

	if edge.Attrs.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%s", quote(wrappedLabel(edge.Attrs.Label, s.LabelWrap))))
	}

	border := Border{}
	if edge.Attrs.Border != nil {
		border = *edge.Attrs.Border
	}
	if colour := firstOf(border.Colour, s.LinkColour); colour != "" {
		attrs = append(attrs, fmt.Sprintf("color=%s", quote(colour)))
	}
	width := s.LinkWidth
	if border.HasWidth {
		width = border.Width
	}
	if width > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%d", width))
	}
	if style := firstOf(border.Style, s.LinkStyle); style != "" && style != "solid" {
		attrs = append(attrs, fmt.Sprintf("style=%s", quote(style)))
	}

	if edge.Attrs.LabelStyle != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%s", quote(edge.Attrs.LabelStyle)))
	}
	if edge.Attrs.LabelSize > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%d", edge.Attrs.LabelSize))
	}

	fmt.Fprintf(b, "  %s -> %s [%s];\n", quote(edge.From), quote(edge.To), strings.Join(attrs, ", "))
}

// wrappedLabel applies the label-wrap setting, joining wrapped lines with a
// literal backslash-n escape that DOT renders as a line break.
func wrappedLabel(label string, width int) string {
	return strings.Join(wrapLabel(label, width), `\n`)
}

// quote wraps a value in double quotes, escaping only the double quote
// itself. Backslashes are intentionally left alone: multi-line label breaks
// are literal \n sequences that must survive emission.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// addStyle appends a style token set-like: adding a flag that is already
// present is a no-op.
func addStyle(styles []string, style string) []string {
	for _, s := range styles {
		if s == style {
			return styles
		}
	}
	return append(styles, style)
}

// firstOf returns the first non-empty value.
func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func scaleOr(scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return scale
}

// trimFloat formats a spacing value without trailing zeros.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
