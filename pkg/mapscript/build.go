package mapscript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxSlugLen caps ids derived from free-text labels.
const maxSlugLen = 32

var (
	bareIDRe   = regexp.MustCompile(`^[A-Za-z]\w*$`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Build parses a whole document into a Graph. It never fails: malformed
// lines become entries in Graph.Errors and the rest of the document is still
// built.
func Build(lines []string) *Graph {
	b := &builder{
		g:    &Graph{byID: map[string]*Node{}},
		scan: ScanClusters(lines),
	}
	b.g.Errors = append(b.g.Errors, b.scan.Errors...)
	b.buildClusters()

	for i, line := range lines {
		b.line = i
		c := classify(line)
		switch c.kind {
		case lineBlank, lineCluster:
			// Cluster structure was handled by the scan.
		case lineSettings:
			b.g.Settings.apply(c.key, c.value)
		case lineNode:
			b.nodeDef(c)
		case lineEdge:
			b.edge(c, line)
		case lineUnknown:
			b.errorf(line, "unrecognized line")
		}
	}
	return b.g
}

type builder struct {
	g    *Graph
	scan ClusterScan
	line int // 0-based index of the line being processed
}

func (b *builder) errorf(raw string, format string, args ...any) {
	b.g.Errors = append(b.g.Errors, LineError{
		Line:    b.line + 1,
		Text:    raw,
		Message: fmt.Sprintf(format, args...),
	})
}

// buildClusters turns the scan's opener list into the cluster tree. The
// slice index of each cluster matches its opener index, so "cluster_N" is
// always Clusters[N].
func (b *builder) buildClusters() {
	for i, op := range b.scan.Openers {
		c := &Cluster{
			ID:       b.scan.ID(i),
			Label:    op.Label,
			Depth:    op.Depth,
			RawAttrs: op.Attrs,
			Attrs:    parseClusterAttrs(parseBracket(op.Attrs)),
		}
		if op.Parent >= 0 {
			c.Parent = b.g.Clusters[op.Parent]
			c.Parent.Children = append(c.Parent.Children, c)
		}
		b.g.Clusters = append(b.g.Clusters, c)
	}
}

// ensureNode returns the node for an endpoint token, creating it on first
// sight. A token shaped like a bare identifier is used as the id directly;
// free text is slugged and kept as the label (last writer wins when two
// labels slug to the same id). A newly created node joins the innermost
// cluster open at the current line; later mentions never move it.
func (b *builder) ensureNode(token string) *Node {
	token = strings.TrimSpace(token)
	id, label := token, token
	if !bareIDRe.MatchString(token) {
		id = slug(token)
	}

	if n := b.g.byID[id]; n != nil {
		if !bareIDRe.MatchString(token) {
			n.Label = label
		}
		return n
	}

	n := &Node{ID: id, Label: label, Cluster: b.ownerCluster()}
	b.g.Nodes = append(b.g.Nodes, n)
	b.g.byID[id] = n
	if n.Cluster >= 0 {
		cl := b.g.Clusters[n.Cluster]
		cl.NodeIDs = append(cl.NodeIDs, id)
	}
	return n
}

func (b *builder) ownerCluster() int {
	if b.line < len(b.scan.Owner) {
		return b.scan.Owner[b.line]
	}
	return -1
}

// nodeDef handles "id :: label [attrs]". Re-declaring an id overwrites the
// label and shallow-merges attributes key by key.
func (b *builder) nodeDef(c classified) {
	rest, inner, _ := splitBracket(c.rest)
	n := b.ensureNode(c.id)
	if label := strings.TrimSpace(rest); label != "" {
		n.Label = label
	}
	mergeNodeAttrs(&n.Attrs, parseNodeAttrs(parseBracket(inner)))
}

// edge handles "sources -> targets [attrs]", expanding the cross product of
// the |-separated endpoint lists. Every generated edge gets its own clone of
// the parsed attributes; mutating one must never affect its siblings.
func (b *builder) edge(c classified, raw string) {
	targets, inner, _ := splitBracket(c.targets)
	attrs := parseEdgeAttrs(parseBracket(inner))

	from := splitList(c.sources)
	to := splitList(targets)
	if len(from) == 0 {
		b.errorf(raw, "edge has no source")
		return
	}
	if len(to) == 0 {
		b.errorf(raw, "edge has no target")
		return
	}

	for _, s := range from {
		src := b.ensureNode(s)
		for _, t := range to {
			dst := b.ensureNode(t)
			b.g.Edges = append(b.g.Edges, &Edge{
				From:  src.ID,
				To:    dst.ID,
				Attrs: attrs.clone(),
				Line:  b.line + 1,
			})
		}
	}
}

// splitList splits a |-separated endpoint list, trimming and dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// slug derives a deterministic node id from free text: lowercase, non-
// alphanumeric runs collapsed to underscores, trimmed, length-capped, with
// "node" as the fallback for text that slugs away to nothing. Collisions
// between different labels are allowed and resolve to last write wins.
func slug(text string) string {
	s := nonAlnumRe.ReplaceAllString(strings.ToLower(text), "_")
	s = strings.Trim(s, "_")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "_")
	}
	if s == "" {
		return "node"
	}
	return s
}

// parseNodeAttrs resolves a node bracket. Recognized keys are colour,
// border, shape, and "text size"; everything else lands in Extra untouched.
func parseNodeAttrs(br bracket) NodeAttrs {
	var a NodeAttrs
	for _, p := range br.kv {
		switch canonicalAttrKey(p.Key) {
		case "colour":
			a.Colour = NormalizeColour(p.Value)
		case "border":
			if b := ParseBorderLoose(p.Value); !b.IsZero() {
				a.Border = &b
			}
		case "shape":
			a.Shape = strings.ToLower(strings.TrimSpace(p.Value))
		case "text size":
			if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil && n > 0 {
				a.TextSize = n
			}
		default:
			a.Extra = append(a.Extra, p)
		}
	}
	a.Extra = append(a.Extra, looseToExtra(br.loose)...)
	return a
}

// parseClusterAttrs resolves a cluster bracket: colour, border,
// "text colour", "text size", rest passed through.
func parseClusterAttrs(br bracket) ClusterAttrs {
	var a ClusterAttrs
	for _, p := range br.kv {
		switch canonicalAttrKey(p.Key) {
		case "colour":
			a.Colour = NormalizeColour(p.Value)
		case "border":
			if b := ParseBorderLoose(p.Value); !b.IsZero() {
				a.Border = &b
			}
		case "text colour":
			a.TextColour = NormalizeColour(p.Value)
		case "text size":
			if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil && n > 0 {
				a.TextSize = n
			}
		default:
			a.Extra = append(a.Extra, p)
		}
	}
	a.Extra = append(a.Extra, looseToExtra(br.loose)...)
	return a
}

// parseEdgeAttrs resolves an edge bracket. Explicit keys are label, border,
// "label style", and "label size". Loose tokens fall back positionally: the
// first is the label unless it already looks like a border fragment, in
// which case every loose token is treated as a border fragment. Loose tokens
// after a label are border fragments as well. Fragment merging is first
// token wins per field.
func parseEdgeAttrs(br bracket) EdgeAttrs {
	var a EdgeAttrs
	for _, p := range br.kv {
		switch canonicalAttrKey(p.Key) {
		case "label":
			a.Label = p.Value
		case "border":
			if b := ParseBorderLoose(p.Value); !b.IsZero() {
				a.Border = &b
			}
		case "label style":
			a.LabelStyle = NormalizeColour(p.Value)
		case "label size":
			if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil && n > 0 {
				a.LabelSize = n
			}
		default:
			a.Extra = append(a.Extra, p)
		}
	}

	loose := br.loose
	if len(loose) > 0 && a.Label == "" && ParseBorderLoose(loose[0]).IsZero() {
		a.Label = loose[0]
		loose = loose[1:]
	}
	border := Border{}
	if a.Border != nil {
		border = *a.Border
	}
	for _, tok := range loose {
		border = border.merge(ParseBorderLoose(tok))
	}
	if !border.IsZero() {
		a.Border = &border
	}
	return a
}

// canonicalAttrKey folds the American spelling so colour/color both match.
func canonicalAttrKey(key string) string {
	return strings.ReplaceAll(key, "color", "colour")
}

func looseToExtra(loose []string) []AttrPair {
	var out []AttrPair
	for _, l := range loose {
		out = append(out, AttrPair{Value: l})
	}
	return out
}

// mergeNodeAttrs shallow-merges src into dst: every key explicitly set in
// src overwrites dst, unset keys leave dst alone. Applying the same merge
// twice gives the same result, which keeps repeated default propagation from
// stacking style flags.
func mergeNodeAttrs(dst *NodeAttrs, src NodeAttrs) {
	if src.Colour != "" {
		dst.Colour = src.Colour
	}
	if src.Border != nil {
		b := *src.Border
		dst.Border = &b
	}
	if src.Shape != "" {
		dst.Shape = src.Shape
	}
	if src.TextSize > 0 {
		dst.TextSize = src.TextSize
	}
	dst.Extra = append(dst.Extra, src.Extra...)
}

// wrapLabel greedily wraps label text on whitespace into lines of at most
// width characters. Words longer than the width get a line of their own.
// A width of zero returns the label unmodified.
func wrapLabel(label string, width int) []string {
	if width <= 0 {
		return []string{label}
	}
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{label}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) <= width {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}
