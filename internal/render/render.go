// Package render marks a computed route on a copy of the original map text.
package render

import (
	"strings"

	"github.com/gyaneshwarpardhi/navigation/internal/mapfile"
)

const boldStyle = "[style = bold]"

// Bold returns a copy of m.Lines in which every edge joining two consecutive
// labels of route is styled bold. m is never modified.
func Bold(m *mapfile.Map, route []string) []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.Lines))
	copy(out, m.Lines)
	if len(route) < 2 {
		return out
	}

	hops := make(map[[2]string]struct{}, len(route)-1)
	for i := 0; i+1 < len(route); i++ {
		hops[[2]string{route[i], route[i+1]}] = struct{}{}
	}
	for _, e := range m.Edges {
		if _, ok := hops[[2]string{e.From, e.To}]; !ok {
			continue
		}
		out[e.Line] = boldLine(out[e.Line])
	}
	return out
}

func boldLine(line string) string {
	if strings.Contains(line, boldStyle) {
		return line
	}
	return strings.TrimRight(strings.ReplaceAll(line, ";", ""), " ") + boldStyle + ";"
}
