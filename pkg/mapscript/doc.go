// Package mapscript compiles the MapScript diagram language into Graphviz
// DOT text and provides surgical line-level editing of MapScript source.
//
// # Overview
//
// MapScript is a small line-oriented language for describing diagrams:
//
//	Title: Deployment
//	Direction: right
//
//	api:: API Gateway [colour=#aabbcc]
//	db:: Database
//	api -> db [label=queries | 2px dashed]
//
//	--Backend
//	api
//	db
//	--
//
// [Compile] turns a whole document into DOT for an external layout renderer,
// accumulating per-line errors instead of failing: a document that is mid-edit
// is the expected steady state, not an exceptional one.
//
// # Compilation
//
// Compilation is a pure function of the document text. Each call re-parses the
// whole document from scratch; there is no retained AST and no state between
// calls. The pipeline is: classify lines, parse bracketed attributes, resolve
// colours/borders/scales, scan cluster markers into a nesting tree, build the
// node table and edge list (with cross-product expansion over |-separated
// endpoint lists), then emit deterministic DOT.
//
//	res := mapscript.Compile(text)
//	fmt.Print(res.DOT)
//	for _, e := range res.Errors {
//	    fmt.Printf("line %d: %s\n", e.Line, e.Message)
//	}
//
// # Line patching
//
// [PatchNode], [PatchEdge], and [PatchCluster] rewrite exactly one source line
// to reflect a structured attribute change. They relocate the backing line
// using the same rules the compiler uses (the cluster patcher re-runs
// [ScanClusters], so cluster ids always agree between the two), replace only
// the managed bracket keys, and preserve every other key, loose token, and
// trailing comment byte for byte. A patch that cannot locate its target
// returns false; callers must surface that rather than silently no-op.
package mapscript
