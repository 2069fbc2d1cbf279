package mapscript

import (
	"strings"
	"testing"
)

func TestPatchNodeAddsBorder(t *testing.T) {
	lines := splitLines("Title: T\nA:: Hello [colour=red]\nB:: World\nA -> B\n")
	before := append([]string(nil), lines...)

	if !PatchNode(lines, "A", NodePatch{Border: Set("2px solid blue")}) {
		t.Fatal("PatchNode returned false for an existing node")
	}

	want := "A:: Hello [colour=red | border=2px solid blue]"
	if lines[1] != want {
		t.Errorf("patched line = %q, want %q", lines[1], want)
	}
	for i, line := range lines {
		if i == 1 {
			continue
		}
		if line != before[i] {
			t.Errorf("line %d changed: %q -> %q", i+1, before[i], line)
		}
	}
}

func TestPatchNodeReplacesManagedKey(t *testing.T) {
	lines := []string{"A:: Hello [colour=red | weight=3]"}
	if !PatchNode(lines, "A", NodePatch{Colour: Set("blue")}) {
		t.Fatal("PatchNode returned false")
	}
	want := "A:: Hello [weight=3 | colour=blue]"
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestPatchNodeDeletesKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"KeepOthers", "A:: Hello [colour=red | shape=rounded]", "A:: Hello [shape=rounded]"},
		{"DropEmptyBracket", "A:: Hello [colour=red]", "A:: Hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{tt.in}
			if !PatchNode(lines, "A", NodePatch{Colour: Set("")}) {
				t.Fatal("PatchNode returned false")
			}
			if lines[0] != tt.want {
				t.Errorf("line = %q, want %q", lines[0], tt.want)
			}
		})
	}
}

func TestPatchNodePreservesComment(t *testing.T) {
	lines := []string{"A:: Hello [colour=red]  # keep me"}
	if !PatchNode(lines, "A", NodePatch{Colour: Set("blue")}) {
		t.Fatal("PatchNode returned false")
	}
	want := "A:: Hello [colour=blue]  # keep me"
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestPatchNodeTargetsLastDeclaration(t *testing.T) {
	lines := []string{"A:: First", "A:: Second"}
	if !PatchNode(lines, "A", NodePatch{Colour: Set("red")}) {
		t.Fatal("PatchNode returned false")
	}
	if lines[0] != "A:: First" {
		t.Errorf("first declaration changed: %q", lines[0])
	}
	if lines[1] != "A:: Second [colour=red]" {
		t.Errorf("last declaration = %q", lines[1])
	}
}

func TestPatchNodeUnlocatable(t *testing.T) {
	lines := []string{"A:: Hello"}
	if PatchNode(lines, "missing", NodePatch{Colour: Set("red")}) {
		t.Error("PatchNode returned true for an unknown id")
	}
	if lines[0] != "A:: Hello" {
		t.Errorf("line mutated on failed patch: %q", lines[0])
	}
}

func TestPatchNodeStableAcrossRepeats(t *testing.T) {
	lines := []string{"A:: Hello"}
	p := NodePatch{Colour: Set("red"), Border: Set("2px solid")}
	PatchNode(lines, "A", p)
	first := lines[0]
	PatchNode(lines, "A", p)
	if lines[0] != first {
		t.Errorf("repeated identical patch changed the line: %q -> %q", first, lines[0])
	}
}

func TestPatchEdge(t *testing.T) {
	lines := splitLines("A:: X\nB:: Y\nA -> B [hop]\n")

	if !PatchEdge(lines, 3, EdgePatch{Label: Set("jump"), Border: Set("dashed")}) {
		t.Fatal("PatchEdge returned false")
	}
	want := "A -> B [label=jump | border=dashed]"
	if lines[2] != want {
		t.Errorf("line = %q, want %q", lines[2], want)
	}
}

func TestPatchEdgeKeepsUnrelatedLoose(t *testing.T) {
	// Patching only the border must leave a loose label token alone.
	lines := []string{"A -> B [hop | dotted]"}
	if !PatchEdge(lines, 1, EdgePatch{Border: Set("2px dashed")}) {
		t.Fatal("PatchEdge returned false")
	}
	want := "A -> B [hop | border=2px dashed]"
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestPatchEdgeRejects(t *testing.T) {
	lines := []string{"A:: not an edge"}
	tests := []struct {
		name   string
		lineNo int
	}{
		{"NotAnEdge", 1},
		{"OutOfRangeLow", 0},
		{"OutOfRangeHigh", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if PatchEdge(lines, tt.lineNo, EdgePatch{Label: Set("x")}) {
				t.Error("PatchEdge returned true")
			}
		})
	}
}

func TestPatchCluster(t *testing.T) {
	lines := splitLines("--Outer\n----Inner\nA:: X\n--\n")

	if !PatchCluster(lines, "cluster_1", ClusterPatch{Colour: Set("#eef")}) {
		t.Fatal("PatchCluster returned false")
	}
	want := "----Inner [colour=#eef]"
	if lines[1] != want {
		t.Errorf("line = %q, want %q", lines[1], want)
	}
	if lines[0] != "--Outer" {
		t.Errorf("outer marker changed: %q", lines[0])
	}
}

func TestPatchClusterMatchesCompilerIDs(t *testing.T) {
	// The id assignment patching uses must agree with what compilation
	// reports, including when markers close and reopen.
	doc := "--First\nA:: X\n--\n--Second\nB:: Y\n--\n"
	lines := splitLines(doc)

	g := Build(splitLines(doc))
	if len(g.Clusters) != 2 || g.Clusters[1].Label != "Second" {
		t.Fatalf("unexpected clusters: %+v", g.Clusters)
	}

	if !PatchCluster(lines, "cluster_1", ClusterPatch{Colour: Set("red")}) {
		t.Fatal("PatchCluster returned false")
	}
	if lines[3] != "--Second [colour=red]" {
		t.Errorf("wrong marker patched: %q", lines[3])
	}
}

func TestPatchClusterUnknownID(t *testing.T) {
	lines := []string{"--Box", "--"}
	for _, id := range []string{"cluster_5", "box", "cluster_x", "cluster_-1"} {
		if PatchCluster(lines, id, ClusterPatch{Colour: Set("red")}) {
			t.Errorf("PatchCluster(%q) returned true", id)
		}
	}
}

func TestPatchThenCompile(t *testing.T) {
	lines := splitLines("A:: Hello\nB:: World\nA -> B\n")
	PatchNode(lines, "A", NodePatch{Colour: Set("seagreen")})
	PatchEdge(lines, 3, EdgePatch{Label: Set("next")})

	res := CompileLines(lines)
	if len(res.Errors) != 0 {
		t.Fatalf("patched document no longer compiles cleanly: %v", res.Errors)
	}
	if !strings.Contains(res.DOT, `fillcolor="seagreen"`) {
		t.Errorf("patched colour missing from DOT:\n%s", res.DOT)
	}
	if !strings.Contains(res.DOT, `label="next"`) {
		t.Errorf("patched edge label missing from DOT:\n%s", res.DOT)
	}
}
