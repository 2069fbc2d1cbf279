package mapscript

import "strings"

// bracket is a parsed trailing "[ ... ]" attribute segment: key=value pairs
// in source order plus "loose" positional tokens with no '=' in them.
type bracket struct {
	kv    []AttrPair
	loose []string
}

// get returns the value for a key (already lower-cased by the parser).
func (b bracket) get(key string) (string, bool) {
	for _, p := range b.kv {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// splitBracket separates a line's code text into the part before a trailing
// bracket and the bracket's inner text. A bracket is only recognized when it
// is the last non-whitespace content on the line.
func splitBracket(code string) (prefix, inner string, ok bool) {
	trimmed := strings.TrimRight(code, " \t")
	if !strings.HasSuffix(trimmed, "]") {
		return code, "", false
	}
	open := strings.LastIndex(trimmed, "[")
	if open < 0 {
		return code, "", false
	}
	return strings.TrimRight(code[:open], " \t"), trimmed[open+1 : len(trimmed)-1], true
}

// parseBracket parses bracket inner text. Parts are separated by '|'; each is
// either key=value (key lower-cased and trimmed, value trimmed) or a loose
// token. Empty parts are dropped.
func parseBracket(inner string) bracket {
	var b bracket
	for _, part := range strings.Split(inner, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, found := strings.Cut(part, "="); found {
			b.kv = append(b.kv, AttrPair{
				Key:   strings.ToLower(strings.TrimSpace(k)),
				Value: strings.TrimSpace(v),
			})
		} else {
			b.loose = append(b.loose, part)
		}
	}
	return b
}
