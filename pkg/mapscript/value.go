package mapscript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Value normalizers. These never reject input: an unparseable colour or
// border degrades to "absent" and default styling applies. Validity beyond
// the recognized forms is the renderer's problem.

var (
	hexColourRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColourRe = regexp.MustCompile(`^rgba?\(\s*([0-9.]+%?)\s*,\s*([0-9.]+%?)\s*,\s*([0-9.]+%?)\s*(?:,\s*[0-9.]+\s*)?\)$`)
	widthRe     = regexp.MustCompile(`^(\d+)(px)?$`)
)

// borderStyles is the closed set of recognized border style keywords.
var borderStyles = map[string]bool{
	"solid":  true,
	"dotted": true,
	"dashed": true,
	"bold":   true,
}

// NormalizeColour canonicalizes a colour value.
//
// Short hex (#abc), hex with alpha (#abcd, #aabbccdd), and rgb()/rgba()
// forms all normalize to 6-digit lowercase hex with the alpha channel
// discarded. Anything else (named colours, unrecognized tokens) is passed
// through unchanged.
func NormalizeColour(v string) string {
	v = strings.TrimSpace(v)

	if m := hexColourRe.FindStringSubmatch(v); m != nil {
		hex := strings.ToLower(m[1])
		switch len(hex) {
		case 3, 4:
			// Expand each digit; drop the short alpha digit if present.
			r, g, b := hex[0], hex[1], hex[2]
			return fmt.Sprintf("#%c%c%c%c%c%c", r, r, g, g, b, b)
		case 8:
			return "#" + hex[:6]
		default:
			return "#" + hex
		}
	}

	if m := rgbColourRe.FindStringSubmatch(strings.ToLower(v)); m != nil {
		r, okR := rgbChannel(m[1])
		g, okG := rgbChannel(m[2])
		b, okB := rgbChannel(m[3])
		if okR && okG && okB {
			return fmt.Sprintf("#%02x%02x%02x", r, g, b)
		}
	}

	return v
}

// rgbChannel parses one rgb() channel: an integer 0-255 or a percentage.
func rgbChannel(s string) (int, bool) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampChannel(int(pct*255/100 + 0.5)), true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampChannel(int(n + 0.5)), true
}

func clampChannel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// IsColour reports whether v is recognizable as a colour: a hex form, an
// rgb()/rgba() form, or a CSS extended colour keyword.
func IsColour(v string) bool {
	v = strings.TrimSpace(v)
	if hexColourRe.MatchString(v) {
		return true
	}
	if rgbColourRe.MatchString(strings.ToLower(v)) {
		return true
	}
	return namedColours[strings.ToLower(v)]
}

// ParseBorder parses a strict "WIDTH[px] STYLE [COLOUR...]" border spec, the
// form used by the "default node border" setting. It requires at least two
// tokens with an integer width and a recognized style; anything else yields
// a zero Border and no error, since borders are optional everywhere.
func ParseBorder(v string) Border {
	fields := strings.Fields(v)
	if len(fields) < 2 {
		return Border{}
	}
	m := widthRe.FindStringSubmatch(fields[0])
	if m == nil {
		return Border{}
	}
	if !borderStyles[strings.ToLower(fields[1])] {
		return Border{}
	}
	width, _ := strconv.Atoi(m[1])
	b := Border{Width: width, HasWidth: true, Style: strings.ToLower(fields[1])}
	if len(fields) > 2 {
		b.Colour = NormalizeColour(strings.Join(fields[2:], " "))
	}
	return b
}

// ParseBorderLoose parses a single loose border token where any subset of
// width, style, and colour may appear: "2px", "dotted", "seagreen",
// "2px dashed", "dashed seagreen", "2px dashed seagreen", or an rgb() form.
// Tokens that fit none of these shapes yield a zero Border.
//
// One token is consumed per call; merge results from repeated calls with
// [Border.merge] so earlier tokens keep their keys.
func ParseBorderLoose(token string) Border {
	token = strings.TrimSpace(token)
	fields := strings.Fields(token)

	switch {
	case len(fields) == 0:
		return Border{}
	case len(fields) == 1:
		f := fields[0]
		if m := widthRe.FindStringSubmatch(f); m != nil {
			width, _ := strconv.Atoi(m[1])
			return Border{Width: width, HasWidth: true}
		}
		if borderStyles[strings.ToLower(f)] {
			return Border{Style: strings.ToLower(f)}
		}
		if IsColour(f) {
			return Border{Colour: NormalizeColour(f)}
		}
		return Border{}
	}

	// Multi-field: WIDTH STYLE [COLOUR...], STYLE COLOUR..., or a colour
	// containing spaces such as "rgb(0, 128, 255)".
	if m := widthRe.FindStringSubmatch(fields[0]); m != nil && borderStyles[strings.ToLower(fields[1])] {
		width, _ := strconv.Atoi(m[1])
		b := Border{Width: width, HasWidth: true, Style: strings.ToLower(fields[1])}
		if len(fields) > 2 {
			rest := strings.Join(fields[2:], " ")
			if IsColour(rest) {
				b.Colour = NormalizeColour(rest)
			}
		}
		return b
	}
	if borderStyles[strings.ToLower(fields[0])] {
		b := Border{Style: strings.ToLower(fields[0])}
		rest := strings.Join(fields[1:], " ")
		if IsColour(rest) {
			b.Colour = NormalizeColour(rest)
		}
		return b
	}
	if IsColour(token) {
		return Border{Colour: NormalizeColour(token)}
	}
	return Border{}
}

// ParseScale parses a relative spacing scale: a bare positive number is a
// multiplier, "NN%" divides by 100. Invalid or non-positive input parses to
// 0, meaning absent.
func ParseScale(v string) float64 {
	v = strings.TrimSpace(v)
	pct := false
	if strings.HasSuffix(v, "%") {
		pct = true
		v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0
	}
	if pct {
		n /= 100
	}
	return n
}

// Direction is the diagram layout direction.
type Direction int

const (
	DirectionUnset Direction = iota
	DirectionDown
	DirectionUp
	DirectionRight
	DirectionLeft
)

// Rankdir returns the DOT rankdir value for the direction, defaulting to
// top-to-bottom when unset.
func (d Direction) Rankdir() string {
	switch d {
	case DirectionUp:
		return "BT"
	case DirectionRight:
		return "LR"
	case DirectionLeft:
		return "RL"
	default:
		return "TB"
	}
}

// ParseDirection normalizes a direction value case-insensitively, tolerating
// spaces, hyphens, and underscores. Unrecognized input parses to
// DirectionUnset and the caller falls back to the default.
func ParseDirection(v string) Direction {
	switch squash(v) {
	case "down", "topdown", "topbottom", "tb", "vertical":
		return DirectionDown
	case "up", "bottomup", "bottomtop", "bt":
		return DirectionUp
	case "right", "leftright", "lr", "horizontal":
		return DirectionRight
	case "left", "rightleft", "rl":
		return DirectionLeft
	default:
		return DirectionUnset
	}
}

// TitlePosition is where the diagram title is placed.
type TitlePosition int

const (
	TitlePositionUnset TitlePosition = iota
	TitlePositionTop
	TitlePositionBottom
)

// Labelloc returns the DOT labelloc value, defaulting to top when unset.
func (p TitlePosition) Labelloc() string {
	if p == TitlePositionBottom {
		return "b"
	}
	return "t"
}

// ParseTitlePosition normalizes a title position value with the same
// tolerance as [ParseDirection].
func ParseTitlePosition(v string) TitlePosition {
	switch squash(v) {
	case "top", "above", "t":
		return TitlePositionTop
	case "bottom", "below", "b":
		return TitlePositionBottom
	default:
		return TitlePositionUnset
	}
}

// squash lowercases v and removes spaces, hyphens, and underscores.
func squash(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, v)
}
