// Package mapfile reads the DOT-style map text that describes the road network.
//
// Supported lines:
//
//	digraph map {                  ignored (any line with a brace)
//	Ulm -> Stuttgart [label="90,100"];  edge: length km, speed km/h
//	Ulm [label="Ulm,5"];            node: waiting time in minutes
//
// Blank lines and lines starting with "//" or "#" are skipped.
package mapfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("mapfile: syntax error")

var (
	edgeLine = regexp.MustCompile(`^\s*(\S.*?)\s*->\s*(\S.*?)\s*\[\s*label\s*=\s*"\s*([0-9.]+)\s*,\s*([0-9.]+)\s*"\s*\]\s*;?\s*$`)
	nodeLine = regexp.MustCompile(`^\s*(\S.*?)\s*\[\s*label\s*=\s*"[^",]*,\s*([0-9]+)\s*"\s*\]\s*;?\s*$`)
)

// EdgeDecl is one directed road.
type EdgeDecl struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Length float64 `json:"length_km"`
	Speed  float64 `json:"speed_kmh"`
	Line   int     `json:"line"` // index into Map.Lines
}

// Minutes returns the travel time over the edge.
func (e EdgeDecl) Minutes() float64 {
	return e.Length / e.Speed * 60
}

// NodeDecl is a waiting-time declaration for one node.
type NodeDecl struct {
	Label   string `json:"label"`
	Waiting int    `json:"waiting_min"`
	Line    int    `json:"line"`
}

// Declarations is the structured content of a map.
type Declarations struct {
	Edges []EdgeDecl
	Nodes []NodeDecl
}

// Map is a parsed map file. Lines holds the original text unchanged.
type Map struct {
	Declarations
	Lines []string
}

// ParseFile reads and parses the map at path.
func ParseFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a map from r.
func Parse(r io.Reader) (*Map, error) {
	m := &Map{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		idx := len(m.Lines)
		m.Lines = append(m.Lines, line)
		if err := m.parseLine(line, idx); err != nil {
			return nil, fmt.Errorf("line %d: %w", idx+1, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return m, nil
}

func (m *Map) parseLine(line string, idx int) error {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "",
		strings.HasPrefix(trimmed, "//"),
		strings.HasPrefix(trimmed, "#"),
		strings.ContainsAny(trimmed, "{}"):
		return nil
	}

	if strings.Contains(trimmed, "->") {
		sub := edgeLine.FindStringSubmatch(line)
		if sub == nil {
			return fmt.Errorf("%w: malformed edge %q", ErrSyntax, trimmed)
		}
		length, err := strconv.ParseFloat(sub[3], 64)
		if err != nil {
			return fmt.Errorf("%w: length %q", ErrSyntax, sub[3])
		}
		speed, err := strconv.ParseFloat(sub[4], 64)
		if err != nil {
			return fmt.Errorf("%w: speed %q", ErrSyntax, sub[4])
		}
		if speed <= 0 {
			return fmt.Errorf("%w: speed must be positive, got %v", ErrSyntax, speed)
		}
		m.Edges = append(m.Edges, EdgeDecl{From: sub[1], To: sub[2], Length: length, Speed: speed, Line: idx})
		return nil
	}

	sub := nodeLine.FindStringSubmatch(line)
	if sub == nil {
		return fmt.Errorf("%w: malformed node %q", ErrSyntax, trimmed)
	}
	wait, err := strconv.Atoi(sub[2])
	if err != nil {
		return fmt.Errorf("%w: waiting time %q", ErrSyntax, sub[2])
	}
	m.Nodes = append(m.Nodes, NodeDecl{Label: sub[1], Waiting: wait, Line: idx})
	return nil
}
