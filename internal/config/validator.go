package config

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// Names double as identifiers in the exported network.
	nameFormat     = regexp.MustCompile(`^[a-zA-Z][0-9a-zA-Z_]*$`)
	valueFormat    = regexp.MustCompile(`^.+$`)
	positionFormat = regexp.MustCompile(`^\s*\(\s*([1-9][0-9]*)\s*[/,]\s*([1-9][0-9]*)\s*\)\s*$`)
	edgeFormat     = regexp.MustCompile(`^\s*(\S+)\s*(?:->|=>)\s*(\S+)\s*$`)
)

// Validate checks the node and edge declarations:
//   - name and value formats, non-empty domains
//   - duplicate names, column aliases and values
//   - position and edge string formats
//
// It stops at the first violation. Edge endpoints are resolved later by the
// network builder, which needs the full node registry.
func Validate(cfg *NetworkConfig) error {
	if len(cfg.Nodes) == 0 {
		return docErr("the array 'nodes' is empty")
	}
	names := make(map[string]int, len(cfg.Nodes))
	columns := make(map[string]int, len(cfg.Nodes))

	for i, n := range cfg.Nodes {
		if !nameFormat.MatchString(n.Name) {
			return nodeErr(i, "name", "invalid name format: %q", n.Name)
		}
		if prev, ok := names[n.Name]; ok {
			return nodeErr(i, "name", "name %q already declared by node at index %d", n.Name, prev)
		}
		names[n.Name] = i

		if n.Column == "" {
			return nodeErr(i, "csv_name", "column name must not be empty")
		}
		if prev, ok := columns[n.Column]; ok {
			return nodeErr(i, "csv_name", "column %q already used by node at index %d", n.Column, prev)
		}
		columns[n.Column] = i

		if len(n.Values) == 0 {
			return nodeErr(i, "values", "the array 'values' is empty")
		}
		seen := make(map[string]int, len(n.Values))
		for j, v := range n.Values {
			if !valueFormat.MatchString(v) {
				return nodeErr(i, "values", "value at index %d: invalid value format", j)
			}
			if k, ok := seen[v]; ok {
				return nodeErr(i, "values", "value at index %d: identical to value at index %d", j, k)
			}
			seen[v] = j
		}

		if _, _, err := ParsePosition(n.Position); err != nil {
			return nodeErr(i, "position", "%v", err)
		}
	}

	for i, e := range cfg.Edges {
		if _, _, ok := ParseEdge(e); !ok {
			return edgeErr(i, "invalid format: %q", e)
		}
	}
	return nil
}

// ParsePosition extracts (row, column) from "(row, column)" or "(row/column)".
func ParsePosition(s string) (row, column int, err error) {
	m := positionFormat.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid position format: %q", s)
	}
	if row, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("position row: %w", err)
	}
	if column, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("position column: %w", err)
	}
	return row, column, nil
}

// ParseEdge splits "Source -> Target" (or "=>") into its endpoints.
func ParseEdge(s string) (source, target string, ok bool) {
	m := edgeFormat.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
