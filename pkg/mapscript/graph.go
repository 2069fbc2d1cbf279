package mapscript

import "fmt"

// LineError describes a problem with a single source line. Compilation never
// stops at the first error; all LineErrors for a document are accumulated and
// returned alongside the best-effort output.
type LineError struct {
	Line    int    // 1-based source line number
	Text    string // original line text
	Message string
}

// Error implements the error interface.
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// AttrPair is a raw key=value attribute preserved from a bracket segment.
// Pairs that the compiler does not understand are kept here as a conscious
// pass-through bucket so editors can round-trip them untouched.
type AttrPair struct {
	Key   string
	Value string
}

// Border describes a node, edge, or cluster border. Any subset of the three
// fields may be present: loose edge tokens like "2px", "dashed", or
// "seagreen" each fill in only part of the border.
type Border struct {
	Width    int    // pen width in pixels; meaningful only when HasWidth
	HasWidth bool
	Style    string // one of solid, dotted, dashed, bold; "" when unset
	Colour   string // "" when unset
}

// IsZero reports whether no border field has been set.
func (b Border) IsZero() bool {
	return !b.HasWidth && b.Style == "" && b.Colour == ""
}

// merge fills unset fields of b from other. Fields already set in b win,
// which gives earlier tokens in a bracket priority over later ones.
func (b Border) merge(other Border) Border {
	if !b.HasWidth && other.HasWidth {
		b.Width = other.Width
		b.HasWidth = true
	}
	if b.Style == "" {
		b.Style = other.Style
	}
	if b.Colour == "" {
		b.Colour = other.Colour
	}
	return b
}

// NodeAttrs holds the inline attributes of a node definition.
type NodeAttrs struct {
	Colour   string  // fill colour
	Border   *Border
	Shape    string
	TextSize int
	Extra    []AttrPair // unrecognized key=value pairs, preserved in order
}

// clone returns a deep copy so merged or expanded entities never share state.
func (a NodeAttrs) clone() NodeAttrs {
	out := a
	if a.Border != nil {
		b := *a.Border
		out.Border = &b
	}
	out.Extra = append([]AttrPair(nil), a.Extra...)
	return out
}

// EdgeAttrs holds the attributes of one edge. A single source line expands
// into one Edge per (source, target) pair, and every generated edge owns an
// independent copy of these attributes.
type EdgeAttrs struct {
	Label      string
	Border     *Border
	LabelStyle string // colour applied to the edge label text
	LabelSize  int
	Extra      []AttrPair
}

func (a EdgeAttrs) clone() EdgeAttrs {
	out := a
	if a.Border != nil {
		b := *a.Border
		out.Border = &b
	}
	out.Extra = append([]AttrPair(nil), a.Extra...)
	return out
}

// ClusterAttrs holds the inline attributes of a cluster marker.
type ClusterAttrs struct {
	Colour     string // fill colour
	Border     *Border
	TextColour string
	TextSize   int
	Extra      []AttrPair
}

// Node is a vertex in the diagram. Identity is by ID: re-declaring the same
// id merges attributes (per key, last write wins) and overwrites the label.
type Node struct {
	ID      string
	Label   string
	Attrs   NodeAttrs
	Cluster int // index into Graph.Clusters, or -1 when unclustered
}

// Edge is one directed connection produced by cross-product expansion.
// Line records the 1-based source line the edge came from; it is the
// edge's stable address for patching.
type Edge struct {
	From  string
	To    string
	Attrs EdgeAttrs
	Line  int
}

// Cluster is a nestable grouping box delimited by dash-marker lines.
// ID is "cluster_N" where N is assigned in the order opening markers are
// encountered; Depth is the marker's dash count (2 = top level, 4 = nested
// one level, and so on).
type Cluster struct {
	ID       string
	Label    string
	Depth    int
	Attrs    ClusterAttrs
	RawAttrs string // bracket inner text exactly as written, "" if none
	NodeIDs  []string
	Children []*Cluster
	Parent   *Cluster
}

// Graph is the compiled form of a document: a node table, an expanded edge
// list, the cluster tree, resolved settings, and every accumulated error.
// It is rebuilt from scratch on every compile; nothing survives between calls.
type Graph struct {
	Settings Settings
	Nodes    []*Node // first-seen order
	Edges    []*Edge // source order
	Clusters []*Cluster
	Errors   []LineError

	byID map[string]*Node
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.byID[id]
}

// TopLevel returns the clusters that have no parent, in creation order.
func (g *Graph) TopLevel() []*Cluster {
	var out []*Cluster
	for _, c := range g.Clusters {
		if c.Parent == nil {
			out = append(out, c)
		}
	}
	return out
}
