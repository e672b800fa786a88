package rework

import "strings"

// ParseCandidates extracts list items from a model's freeform response.
//
// The grammar, applied to each line after trimming surrounding whitespace:
//
//	line   = marker [ " " ] item
//	marker = digit { digit } "." | "-" | "*"
//
// Lines are split on "\n", "\r\n" and "\r". Indented (nested) items match
// like top-level ones. Lines without a marker, including continuation lines
// of a multi-line item, are dropped. An item that is empty after trimming is
// dropped. The result keeps the order of appearance, is not deduplicated and
// is not capped; it is nil when nothing matches.
//
// Items are returned without their marker, so prefixing an item with any
// marker and parsing it again yields the same item.
func ParseCandidates(raw string) []string {
	var items []string
	for _, line := range splitLines(raw) {
		if item, ok := parseListItem(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func parseListItem(line string) (string, bool) {
	rest, ok := cutMarker(strings.TrimSpace(line))
	if !ok {
		return "", false
	}
	item := strings.TrimSpace(strings.TrimPrefix(rest, " "))
	return item, item != ""
}

// cutMarker returns the text after a leading list marker.
func cutMarker(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	if line[0] == '-' || line[0] == '*' {
		return line[1:], true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i == len(line) || line[i] != '.' {
		return "", false
	}
	return line[i+1:], true
}
