package mapscript

import (
	"regexp"
	"strings"
)

// lineKind is the classification of one physical source line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineSettings
	lineNode
	lineEdge
	lineCluster
	lineUnknown
)

var (
	clusterRe = regexp.MustCompile(`^(-{2,})(.*)$`)
	settingRe = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
	nodeRe    = regexp.MustCompile(`^(\S+)\s*::\s*(.+)$`)
	edgeRe    = regexp.MustCompile(`^(.+?)\s*->\s*(.+)$`)
)

// classified is the result of classifying a single line. Only the fields for
// the matched kind are populated.
type classified struct {
	kind lineKind
	code string // comment-stripped, trimmed text

	key, value       string // settings
	id, rest         string // node: id and everything after "::"
	sources, targets string // edge: raw sides of the first "->"
	dashes           int    // cluster: dash count
	tail             string // cluster: text after the dashes
}

// stripComment removes a trailing comment from a line. The comment starts at
// the first unescaped '#' that does not begin a hex colour; an escaped "\#"
// is unescaped to a literal '#' in the returned code text.
func stripComment(line string) string {
	idx := commentIndex(line)
	code := line
	if idx >= 0 {
		code = line[:idx]
	}
	return strings.ReplaceAll(code, `\#`, "#")
}

// commentIndex returns the byte offset of the first unescaped '#' that opens
// a comment, or -1. A '#' immediately followed by a complete hex colour body
// (#abc, #abcd, #aabbcc, #aabbccdd) is part of the code, not a comment: hex
// colours are everyday values in this language and would otherwise be
// impossible to write unescaped.
func commentIndex(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' || (i > 0 && line[i-1] == '\\') {
			continue
		}
		if n := hexColourLen(line[i+1:]); n > 0 {
			i += n
			continue
		}
		return i
	}
	return -1
}

// hexColourLen returns the length of the hex colour body at the start of s
// (3, 4, 6, or 8 hex digits ending at a word boundary), or 0 when s does not
// start with one.
func hexColourLen(s string) int {
	n := 0
	for n < len(s) && isHexDigit(s[n]) {
		n++
	}
	switch n {
	case 3, 4, 6, 8:
	default:
		return 0
	}
	if n < len(s) && isWordByte(s[n]) {
		return 0
	}
	return n
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// classify determines what one physical line is. Classification order
// matters: cluster markers first, then settings (gated on the recognized key
// vocabulary so labels containing colons fall through), node definitions,
// edges, and finally unrecognized.
func classify(line string) classified {
	code := strings.TrimSpace(stripComment(line))
	c := classified{code: code}

	if code == "" {
		c.kind = lineBlank
		return c
	}

	if m := clusterRe.FindStringSubmatch(code); m != nil {
		c.kind = lineCluster
		c.dashes = len(m[1])
		c.tail = strings.TrimSpace(m[2])
		return c
	}

	if m := settingRe.FindStringSubmatch(code); m != nil &&
		!strings.Contains(code, "->") && !strings.Contains(code, "::") {
		key := canonicalSettingKey(m[1])
		if settingKeys[key] {
			c.kind = lineSettings
			c.key = key
			c.value = strings.TrimSpace(m[2])
			return c
		}
	}

	if m := nodeRe.FindStringSubmatch(code); m != nil {
		c.kind = lineNode
		c.id = m[1]
		c.rest = strings.TrimSpace(m[2])
		return c
	}

	if m := edgeRe.FindStringSubmatch(code); m != nil {
		c.kind = lineEdge
		c.sources = strings.TrimSpace(m[1])
		c.targets = strings.TrimSpace(m[2])
		return c
	}

	c.kind = lineUnknown
	return c
}

// splitLines splits document text into lines, tolerating CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
