package mapscript

import (
	"strconv"
	"strings"
)

// Settings is the flat record of diagram-wide properties. Unset fields keep
// their zero value and are never defaulted at parse time; defaulting happens
// at emission so callers can tell "explicitly set" from "absent".
type Settings struct {
	Title           string
	Background      string
	TextColour      string
	NodeTextColour  string
	GroupTextColour string
	TitleSize       int
	TitlePosition   TitlePosition
	NodeColour      string
	NodeShape       string
	NodeBorder      *Border
	NodeShadow      bool
	LinkColour      string
	LinkStyle       string
	LinkWidth       int
	Direction       Direction
	LabelWrap       int
	SpacingAlong    float64 // rank spacing multiplier, 0 = unset
	SpacingAcross   float64 // node spacing multiplier, 0 = unset
}

// settingKeys is the closed settings vocabulary. A "Key: value" line whose
// key is not in this set is classified as unrecognized rather than silently
// treated as a setting, which keeps node and edge labels containing colons
// from being misread.
var settingKeys = map[string]bool{
	"title":                     true,
	"background":                true,
	"text colour":               true,
	"default node text colour":  true,
	"default group text colour": true,
	"title size":                true,
	"title position":            true,
	"default node colour":       true,
	"default node shape":        true,
	"default node border":       true,
	"default node shadow":       true,
	"default link colour":       true,
	"default link style":        true,
	"default link width":        true,
	"direction":                 true,
	"label wrap":                true,
	"spacing along":             true,
	"spacing across":            true,
}

// canonicalSettingKey lowercases, collapses whitespace, and folds the
// American "color" spelling so both spellings hit the vocabulary.
func canonicalSettingKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.Join(strings.Fields(key), " ")
	return strings.ReplaceAll(key, "color", "colour")
}

// apply stores one settings line. The key must already be canonical; values
// that fail to parse leave the field unset rather than raising an error.
func (s *Settings) apply(key, value string) {
	switch key {
	case "title":
		s.Title = value
	case "background":
		s.Background = NormalizeColour(value)
	case "text colour":
		s.TextColour = NormalizeColour(value)
	case "default node text colour":
		s.NodeTextColour = NormalizeColour(value)
	case "default group text colour":
		s.GroupTextColour = NormalizeColour(value)
	case "title size":
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			s.TitleSize = n
		}
	case "title position":
		s.TitlePosition = ParseTitlePosition(value)
	case "default node colour":
		s.NodeColour = NormalizeColour(value)
	case "default node shape":
		s.NodeShape = strings.ToLower(strings.TrimSpace(value))
	case "default node border":
		if b := ParseBorder(value); !b.IsZero() {
			s.NodeBorder = &b
		}
	case "default node shadow":
		s.NodeShadow = parseBool(value)
	case "default link colour":
		s.LinkColour = NormalizeColour(value)
	case "default link style":
		if v := strings.ToLower(strings.TrimSpace(value)); borderStyles[v] {
			s.LinkStyle = v
		}
	case "default link width":
		if m := widthRe.FindStringSubmatch(strings.TrimSpace(value)); m != nil {
			s.LinkWidth, _ = strconv.Atoi(m[1])
		}
	case "direction":
		s.Direction = ParseDirection(value)
	case "label wrap":
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			s.LabelWrap = n
		}
	case "spacing along":
		s.SpacingAlong = ParseScale(value)
	case "spacing across":
		s.SpacingAcross = ParseScale(value)
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}
