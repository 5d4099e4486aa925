// Package wikitext parses sectioned wikitext lists into collections.
//
// The accepted format is a sequence of level-2+ headings, each followed by
// bulleted (*) or numbered (#) items. One item per section may carry
// coordinates in the form "{ lat: 43.0, lon: 1.17 }":
//
//	== Spain ==
//	# { lat: 43.0, lon: 1.17 }
//	# Quercus robur
//	# Pica pica
//
// Parsing never fails; malformed input yields fewer or no collections.
package wikitext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

var (
	headerLine = regexp.MustCompile(`(?m)^==+\s*(.+?)\s*==+$`)
	coordinate = regexp.MustCompile(`\{\s*lat\s*:\s*(-?\d+(?:\.\d*)?|-?\.\d+)\s*,\s*lon\s*:\s*(-?\d+(?:\.\d*)?|-?\.\d+)\s*\}`)
)

// Parse decodes raw wikitext into collections in document order. Sections
// without names are dropped; nil is returned when no collection remains.
func Parse(raw string) []domain.Collection {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	headers := headerLine.FindAllStringSubmatchIndex(raw, -1)
	if len(headers) == 0 {
		return nil
	}

	var out []domain.Collection
	for i, h := range headers {
		title := strings.TrimSpace(raw[h[2]:h[3]])

		end := len(raw)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}

		if c, ok := parseSection(title, raw[h[1]:end]); ok {
			out = append(out, c)
		}
	}
	return out
}

func parseSection(title, body string) (domain.Collection, bool) {
	items := listItems(body)

	c := domain.Collection{Title: title}
	coordAt := -1
	for i, item := range items {
		if lat, lon, ok := parseCoordinates(item); ok {
			c.Latitude, c.Longitude = &lat, &lon
			coordAt = i
			break
		}
	}

	for i, item := range items {
		if i != coordAt && item != "" {
			c.Names = append(c.Names, item)
		}
	}
	return c, len(c.Names) > 0
}

// listItems returns the marker-stripped, trimmed text of list lines.
func listItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, strings.TrimSpace(line[1:]))
	}
	return items
}

func parseCoordinates(s string) (float64, float64, bool) {
	m := coordinate.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// FilterLines keeps only lines whose trimmed form starts with '=', '*' or '#'.
// Kept lines are returned unmodified, joined by newlines.
func FilterLines(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "=") || strings.HasPrefix(t, "*") || strings.HasPrefix(t, "#") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
