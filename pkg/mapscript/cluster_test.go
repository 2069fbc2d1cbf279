package mapscript

import (
	"strings"
	"testing"
)

func TestScanClustersIDDeterminism(t *testing.T) {
	lines := splitLines("--One\n--\n--Two\n----Inner\n--\n--Three\n")

	scan := ScanClusters(lines)
	if len(scan.Openers) != 4 {
		t.Fatalf("openers = %d, want 4", len(scan.Openers))
	}
	wantLabels := []string{"One", "Two", "Inner", "Three"}
	for i, want := range wantLabels {
		if scan.Openers[i].Label != want {
			t.Errorf("opener %d label = %q, want %q", i, scan.Openers[i].Label, want)
		}
		if scan.ID(i) != "cluster_"+string(rune('0'+i)) {
			t.Errorf("ID(%d) = %q", i, scan.ID(i))
		}
	}
	if scan.Openers[2].Parent != 1 {
		t.Errorf("Inner parent = %d, want 1", scan.Openers[2].Parent)
	}
}

func TestScanClustersEmptyMarker(t *testing.T) {
	t.Run("ClosesOpenBox", func(t *testing.T) {
		scan := ScanClusters(splitLines("--A\n--\n"))
		if len(scan.Openers) != 1 {
			t.Fatalf("openers = %d, want 1 (empty marker should close, not open)", len(scan.Openers))
		}
	})

	t.Run("OpensWhenNothingOpen", func(t *testing.T) {
		scan := ScanClusters(splitLines("--\n"))
		if len(scan.Openers) != 1 {
			t.Fatalf("openers = %d, want 1 (empty marker with nothing open opens a box)", len(scan.Openers))
		}
		if scan.Openers[0].Label != "" {
			t.Errorf("label = %q, want empty", scan.Openers[0].Label)
		}
	})

	t.Run("ShallowEmptyMarkerClosesDeeper", func(t *testing.T) {
		// The deep box is open, so a shallower empty marker closes it
		// (pop everything at depth >= 2) rather than opening.
		scan := ScanClusters(splitLines("----Deep\n--\nA:: X\n"))
		if len(scan.Openers) != 1 {
			t.Fatalf("openers = %d, want 1", len(scan.Openers))
		}
		if scan.Owner[2] != -1 {
			t.Errorf("owner after close = %d, want -1", scan.Owner[2])
		}
	})
}

func TestScanClustersSameDepthOpenerReplaces(t *testing.T) {
	// A labeled opener at the same depth implicitly closes the previous box.
	scan := ScanClusters(splitLines("--A\nx:: X\n--B\ny:: Y\n"))
	if len(scan.Openers) != 2 {
		t.Fatalf("openers = %d, want 2", len(scan.Openers))
	}
	if scan.Owner[1] != 0 {
		t.Errorf("x owner = %d, want 0", scan.Owner[1])
	}
	if scan.Owner[3] != 1 {
		t.Errorf("y owner = %d, want 1", scan.Owner[3])
	}
	if scan.Openers[1].Parent != -1 {
		t.Errorf("B parent = %d, want -1", scan.Openers[1].Parent)
	}
}

func TestScanClustersOddDashCount(t *testing.T) {
	scan := ScanClusters(splitLines("---Bad\nA:: X\n"))
	if len(scan.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(scan.Errors))
	}
	if !strings.Contains(scan.Errors[0].Message, "even number") {
		t.Errorf("error %q should mention even number", scan.Errors[0].Message)
	}
	if len(scan.Openers) != 0 {
		t.Errorf("openers = %d, want 0 (odd markers push nothing)", len(scan.Openers))
	}
}

func TestScanClustersAttrs(t *testing.T) {
	scan := ScanClusters(splitLines("--Group [colour=red | text size=14]\n"))
	if len(scan.Openers) != 1 {
		t.Fatalf("openers = %d, want 1", len(scan.Openers))
	}
	op := scan.Openers[0]
	if op.Label != "Group" {
		t.Errorf("label = %q, want Group", op.Label)
	}
	if op.Attrs != "colour=red | text size=14" {
		t.Errorf("attrs = %q", op.Attrs)
	}
	if op.Depth != 2 || op.Line != 1 {
		t.Errorf("depth=%d line=%d", op.Depth, op.Line)
	}
}

func TestScanClustersNesting(t *testing.T) {
	scan := ScanClusters(splitLines("--Outer\n----Inner\nA:: X\n--\nB:: Y\n"))

	if len(scan.Openers) != 2 {
		t.Fatalf("openers = %d, want 2", len(scan.Openers))
	}
	if scan.Openers[1].Parent != 0 {
		t.Errorf("Inner parent = %d, want 0", scan.Openers[1].Parent)
	}
	if scan.Owner[2] != 1 {
		t.Errorf("A owner = %d, want 1 (innermost)", scan.Owner[2])
	}
	// "--" closes both the inner and outer box (pop depth >= 2).
	if scan.Owner[4] != -1 {
		t.Errorf("B owner = %d, want -1", scan.Owner[4])
	}
}
