package mapscript

import (
	"strconv"
	"strings"
)

// Line-patch editors rewrite exactly one source line to reflect a structured
// attribute change. The guarantee that makes live editing safe: every line
// other than the located one is byte-identical before and after, and on the
// located line only the managed bracket keys change. Comments, unmanaged
// keys, and loose tokens are carried over verbatim.
//
// Each patch field is a pointer: nil leaves the key untouched, a pointer to
// the empty string removes it, anything else sets it. [Set] builds the
// pointer form from a plain string.

// Set returns a pointer to v for use in patch structs.
func Set(v string) *string { return &v }

// NodePatch describes changes to a node definition's managed attributes.
type NodePatch struct {
	Colour   *string
	Border   *string
	Shape    *string
	TextSize *string
}

// EdgePatch describes changes to an edge line's managed attributes.
type EdgePatch struct {
	Label      *string
	Border     *string
	LabelStyle *string
	LabelSize  *string
}

// ClusterPatch describes changes to a cluster marker's managed attributes.
type ClusterPatch struct {
	Colour     *string
	Border     *string
	TextColour *string
	TextSize   *string
}

// PatchNode rewrites the definition line of the node with the given id,
// mutating lines in place. When the id is declared more than once the last
// declaration is patched, since its attributes win during compilation.
// Returns false if no definition line for the id exists; callers must
// surface that instead of treating it as a successful no-op.
func PatchNode(lines []string, id string, p NodePatch) bool {
	target := -1
	for i, line := range lines {
		if c := classify(line); c.kind == lineNode && c.id == id {
			target = i
		}
	}
	if target < 0 {
		return false
	}

	managed, updates := patchPlan([]patchField{
		{"colour", p.Colour},
		{"border", p.Border},
		{"shape", p.Shape},
		{"text size", p.TextSize},
	})
	lines[target] = rewriteBracket(lines[target], managed, updates, nil)
	return true
}

// PatchEdge rewrites the edge line at the given 1-based line number.
// Returns false when the line number is out of range or the line is not an
// edge line. Loose tokens standing in for the label or border are removed
// when that attribute is being patched, so the patched value does not end up
// duplicated.
func PatchEdge(lines []string, lineNo int, p EdgePatch) bool {
	if lineNo < 1 || lineNo > len(lines) {
		return false
	}
	if classify(lines[lineNo-1]).kind != lineEdge {
		return false
	}

	managed, updates := patchPlan([]patchField{
		{"label", p.Label},
		{"border", p.Border},
		{"label style", p.LabelStyle},
		{"label size", p.LabelSize},
	})

	labelSeen := false
	dropLoose := func(tok string) bool {
		if ParseBorderLoose(tok).IsZero() {
			if !labelSeen {
				labelSeen = true
				return p.Label != nil
			}
			return false
		}
		return p.Border != nil
	}

	lines[lineNo-1] = rewriteBracket(lines[lineNo-1], managed, updates, dropLoose)
	return true
}

// PatchCluster rewrites the opening marker of the cluster with the given
// structural id ("cluster_N"). The marker is located by re-running
// [ScanClusters], so id assignment always matches the compiler's. Returns
// false for an unknown or malformed id.
func PatchCluster(lines []string, clusterID string, p ClusterPatch) bool {
	n, ok := strings.CutPrefix(clusterID, "cluster_")
	if !ok {
		return false
	}
	idx, err := strconv.Atoi(n)
	if err != nil || idx < 0 {
		return false
	}

	scan := ScanClusters(lines)
	if idx >= len(scan.Openers) {
		return false
	}

	managed, updates := patchPlan([]patchField{
		{"colour", p.Colour},
		{"border", p.Border},
		{"text colour", p.TextColour},
		{"text size", p.TextSize},
	})
	target := scan.Openers[idx].Line - 1
	lines[target] = rewriteBracket(lines[target], managed, updates, nil)
	return true
}

type patchField struct {
	key   string
	value *string
}

// patchPlan splits requested fields into the set of keys to remove from the
// existing bracket and the key=value updates to re-append. Keys are appended
// in the fixed order of the field list, which keeps the bracket layout
// stable across repeated patches.
func patchPlan(fields []patchField) (map[string]bool, []AttrPair) {
	managed := map[string]bool{}
	var updates []AttrPair
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		managed[f.key] = true
		if *f.value != "" {
			updates = append(updates, AttrPair{Key: f.key, Value: *f.value})
		}
	}
	return managed, updates
}

// rewriteBracket rebuilds one line's bracket segment: managed keys are
// removed, every other part is kept in order, and the updates are appended.
// The text before the bracket and any trailing comment (including the
// whitespace in front of it) are preserved exactly. An empty resulting
// bracket is dropped altogether.
func rewriteBracket(raw string, managed map[string]bool, updates []AttrPair, dropLoose func(string) bool) string {
	codeRaw, suffix := raw, ""
	if idx := commentIndex(raw); idx >= 0 {
		codeRaw, suffix = raw[:idx], raw[idx:]
	}
	codeTrim := strings.TrimRight(codeRaw, " \t")
	gap := codeRaw[len(codeTrim):]

	prefix, inner, hasBracket := splitBracket(codeTrim)
	if !hasBracket {
		prefix = codeTrim
	}

	var parts []string
	if hasBracket {
		for _, part := range strings.Split(inner, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if k, _, found := strings.Cut(part, "="); found {
				key := canonicalAttrKey(strings.ToLower(strings.TrimSpace(k)))
				if managed[key] {
					continue
				}
			} else if dropLoose != nil && dropLoose(part) {
				continue
			}
			parts = append(parts, part)
		}
	}
	for _, u := range updates {
		parts = append(parts, u.Key+"="+u.Value)
	}

	code := prefix
	if len(parts) > 0 {
		code = prefix + " [" + strings.Join(parts, " | ") + "]"
	}
	return code + gap + suffix
}
