// Package hosts maintains the generated region of the static hosts table.
package hosts

import (
	"strings"
)

const loopback = "127.0.0.1"

// Entries renders one loopback line per hostname.
func Entries(hostnames []string) []string {
	lines := make([]string, 0, len(hostnames))
	for _, h := range hostnames {
		lines = append(lines, loopback+" "+h)
	}
	return lines
}

// Patch replaces the region between start and end with entries for
// hostnames. Text outside the region is preserved byte for byte. When no
// well-formed region exists a new one is appended.
func Patch(existing string, hostnames []string, start, end string) string {
	body := "\n"
	if lines := Entries(hostnames); len(lines) > 0 {
		body = "\n" + strings.Join(lines, "\n") + "\n"
	}

	if s, e, ok := findRegion(existing, start, end); ok {
		return existing[:s] + body + existing[e:]
	}

	return existing + "\n" + start + body + end + "\n"
}

// findRegion returns the bounds of the text between the first end marker
// preceded by a start marker and the closest start marker before it.
// Orphan markers on either side never widen a region.
func findRegion(existing, start, end string) (int, int, bool) {
	offset := 0
	for {
		i := strings.Index(existing[offset:], end)
		if i < 0 {
			return 0, 0, false
		}
		e := offset + i
		if s := strings.LastIndex(existing[:e], start); s >= 0 {
			return s + len(start), e, true
		}
		offset = e + len(end)
	}
}
