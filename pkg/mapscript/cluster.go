package mapscript

import "fmt"

// ClusterOpener records one opening cluster marker found by [ScanClusters].
// The Nth opener (0-based) is always assigned id "cluster_N" in document
// order, regardless of how many closing markers precede it.
type ClusterOpener struct {
	Line   int    // 1-based source line of the marker
	Depth  int    // dash count (even)
	Label  string
	Attrs  string // raw bracket inner text, "" if none
	Parent int    // index of the enclosing opener, or -1
}

// ClusterScan is the result of scanning a document's cluster markers.
type ClusterScan struct {
	Openers []ClusterOpener
	// Owner gives, for each source line (0-based index), the index of the
	// innermost cluster open at that line, or -1. Marker lines report the
	// state after the marker takes effect.
	Owner  []int
	Errors []LineError
}

// ID returns the id assigned to the Nth opener.
func (s ClusterScan) ID(n int) string {
	return fmt.Sprintf("cluster_%d", n)
}

// ScanClusters runs the depth-stack scan over a whole document and is the
// single source of truth for cluster identity: the graph builder and
// [PatchCluster] both call it, so a cluster id always resolves to the same
// marker line in both.
//
// For a marker with dash count d and trailing text rest:
//
//   - rest empty and the top of the stack at depth >= d: the marker closes,
//     popping every frame at depth >= d.
//   - otherwise it opens: frames deeper than d-2 are popped first (a same-or
//     shallower opener implicitly closes whatever was left open beneath it),
//     then a frame at depth d is pushed and the next id assigned.
//
// The empty-marker disambiguation is heuristic: an empty marker only closes
// when something at its depth or deeper is open, otherwise it opens a new
// unlabeled box. Deeply nested empty markers can therefore behave
// surprisingly; that behavior is intentional and must not change, since the
// patch editors rely on reproducing it identically.
//
// Markers with an odd dash count are reported and skipped entirely: they
// neither push nor pop.
func ScanClusters(lines []string) ClusterScan {
	scan := ClusterScan{Owner: make([]int, len(lines))}

	// stack holds indices into scan.Openers for currently open frames.
	var stack []int

	top := func() int {
		if len(stack) == 0 {
			return -1
		}
		return stack[len(stack)-1]
	}

	for i, line := range lines {
		c := classify(line)
		if c.kind != lineCluster {
			scan.Owner[i] = top()
			continue
		}

		if c.dashes%2 != 0 {
			scan.Errors = append(scan.Errors, LineError{
				Line:    i + 1,
				Text:    line,
				Message: fmt.Sprintf("group markers must use an even number of dashes, got %d", c.dashes),
			})
			scan.Owner[i] = top()
			continue
		}

		depth := c.dashes
		if c.tail == "" && top() >= 0 && scan.Openers[top()].Depth >= depth {
			// Closing marker: pop everything at this depth or deeper.
			for top() >= 0 && scan.Openers[top()].Depth >= depth {
				stack = stack[:len(stack)-1]
			}
			scan.Owner[i] = top()
			continue
		}

		// Opening marker: align to the parent level first.
		for top() >= 0 && scan.Openers[top()].Depth > depth-2 {
			stack = stack[:len(stack)-1]
		}

		label, attrs := c.tail, ""
		if prefix, inner, ok := splitBracket(c.tail); ok {
			label, attrs = prefix, inner
		}

		scan.Openers = append(scan.Openers, ClusterOpener{
			Line:   i + 1,
			Depth:  depth,
			Label:  label,
			Attrs:  attrs,
			Parent: top(),
		})
		stack = append(stack, len(scan.Openers)-1)
		scan.Owner[i] = top()
	}

	return scan
}
