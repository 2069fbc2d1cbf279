package mapscript

import (
	"strings"
	"testing"
)

func TestEmitDeterministic(t *testing.T) {
	doc := "Title: T\n--Box\nA:: X\n--\nB:: Y\nA -> B\nB -> A\n"
	first := Compile(doc)
	second := Compile(doc)
	if first.DOT != second.DOT {
		t.Fatal("compiling the same document twice produced different DOT")
	}
}

func TestEmitDefaults(t *testing.T) {
	dot := Compile("A:: X\n").DOT

	for _, want := range []string{
		"digraph {\n",
		"rankdir=TB;",
		"ranksep=0.5;",
		"nodesep=0.25;",
		`"A" [label="X", id="node--A"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestEmitTitle(t *testing.T) {
	dot := Compile("Title: My Map\nA:: X\n").DOT

	for _, want := range []string{
		`label="My Map";`,
		`labelloc="t";`,
		"fontsize=20;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestEmitSettings(t *testing.T) {
	doc := strings.Join([]string{
		"Direction: right",
		"Background: #abc",
		"Spacing Along: 80%",
		"Spacing Across: 2",
		"Default Link Colour: seagreen",
		"A -> B",
	}, "\n")
	dot := Compile(doc).DOT

	for _, want := range []string{
		"rankdir=LR;",
		`bgcolor="#aabbcc";`,
		"ranksep=0.4;",
		"nodesep=0.5;",
		`color="seagreen"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestEmitOrdering(t *testing.T) {
	doc := "--Box\nA:: X\n--\nB:: Y\nA -> B\n"
	dot := Compile(doc).DOT

	cluster := strings.Index(dot, "subgraph cluster_0")
	nodeA := strings.Index(dot, `"A" [`)
	nodeB := strings.Index(dot, `"B" [`)
	edge := strings.Index(dot, `"A" -> "B"`)
	close := strings.Index(dot, "  }")

	for name, idx := range map[string]int{
		"cluster": cluster, "nodeA": nodeA, "nodeB": nodeB, "edge": edge, "close": close,
	} {
		if idx < 0 {
			t.Fatalf("%s missing from DOT:\n%s", name, dot)
		}
	}
	if !(cluster < nodeA && nodeA < close) {
		t.Errorf("clustered node A not inside its subgraph block:\n%s", dot)
	}
	if !(close < nodeB) {
		t.Errorf("unclustered node B emitted before cluster closed:\n%s", dot)
	}
	if !(nodeB < edge) {
		t.Errorf("edges must come after all nodes:\n%s", dot)
	}
}

func TestEmitNestedClusters(t *testing.T) {
	doc := "--Outer\n----Inner\nA:: X\n--\n"
	dot := Compile(doc).DOT

	outer := strings.Index(dot, "subgraph cluster_0")
	inner := strings.Index(dot, "subgraph cluster_1")
	if outer < 0 || inner < 0 || inner < outer {
		t.Fatalf("nested subgraphs wrong:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Outer";`) || !strings.Contains(dot, `label="Inner";`) {
		t.Errorf("cluster labels missing:\n%s", dot)
	}
}

func TestEmitClusterStyles(t *testing.T) {
	dot := Compile("--Group [colour=red | border=dashed]\nA:: X\n--\n").DOT

	open := strings.Index(dot, "subgraph cluster_0")
	close := strings.Index(dot, "  }")
	if open < 0 || close < open {
		t.Fatalf("cluster block missing:\n%s", dot)
	}
	block := dot[open:close]
	if got := strings.Count(block, "style="); got != 1 {
		t.Errorf("cluster emits %d style attributes, want 1:\n%s", got, dot)
	}
	if !strings.Contains(block, `style="filled,dashed";`) {
		t.Errorf("cluster styles not merged:\n%s", dot)
	}
	if !strings.Contains(block, `fillcolor="red";`) {
		t.Errorf("cluster fillcolor missing:\n%s", dot)
	}
}

func TestEmitEdgeIDs(t *testing.T) {
	dot := Compile("A:: X\nB:: Y\nA -> B\n").DOT
	if !strings.Contains(dot, `id="edge--3--A--B"`) {
		t.Errorf("edge id missing or wrong:\n%s", dot)
	}
}

func TestEmitNodeStyles(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "FillAndRounded",
			doc:  "A:: X [colour=red | shape=rounded]\n",
			want: []string{`fillcolor="red"`, `style="filled,rounded"`},
		},
		{
			name: "ExplicitShape",
			doc:  "A:: X [shape=diamond]\n",
			want: []string{`shape="diamond"`},
		},
		{
			name: "Border",
			doc:  "A:: X [border=2px dashed seagreen]\n",
			want: []string{`color="seagreen"`, "penwidth=2", `style="dashed"`},
		},
		{
			name: "DefaultsFromSettings",
			doc:  "Default Node Colour: #ABC\nDefault Node Shadow: yes\nA:: X\n",
			want: []string{`fillcolor="#aabbcc"`, `style="filled"`, `class="shadow"`},
		},
		{
			name: "NodeColourOverridesDefault",
			doc:  "Default Node Colour: red\nA:: X [colour=blue]\n",
			want: []string{`fillcolor="blue"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := Compile(tt.doc).DOT
			for _, want := range tt.want {
				if !strings.Contains(dot, want) {
					t.Errorf("DOT missing %q:\n%s", want, dot)
				}
			}
		})
	}
}

func TestEmitLabelWrap(t *testing.T) {
	dot := Compile("Label Wrap: 8\nA:: one two three four\n").DOT
	if !strings.Contains(dot, `label="one two\nthree\nfour"`) {
		t.Errorf("wrapped label missing:\n%s", dot)
	}
}

func TestEmitQuoting(t *testing.T) {
	dot := Compile("A:: say \"hi\"\n").DOT
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("quote escaping wrong:\n%s", dot)
	}
}

func TestEmitReuseAfterBuild(t *testing.T) {
	// Emitting a built graph twice gives the same text; emission applies
	// defaults without mutating the graph.
	g := Build(splitLines("Default Node Colour: red\nA:: X\nA -> B\n"))
	first := Emit(g)
	second := Emit(g)
	if first != second {
		t.Fatal("emitting the same graph twice produced different DOT")
	}
	if strings.Count(first, "filled") != strings.Count(second, "filled") {
		t.Error("style flags stacked across emissions")
	}
}
