// Package network holds the validated dependency graph of a Bayesian network.
package network

import (
	"fmt"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
)

// Build validates cfg and constructs the Graph. Declarations are checked
// first, then edges are resolved against the registry, then the graph is
// checked for cycles. The first violation aborts the build.
func Build(cfg *config.NetworkConfig) (*Graph, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	g := NewGraph()
	for i, n := range cfg.Nodes {
		row, col, err := config.ParsePosition(n.Position)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		domain := make([]string, len(n.Values))
		copy(domain, n.Values)
		if _, err := g.AddVariable(n.Name, n.Column, domain, row, col); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	seen := make(map[[2]int]int, len(cfg.Edges))
	for i, e := range cfg.Edges {
		src, dst, _ := config.ParseEdge(e)
		parent := g.Variable(src)
		if parent == nil {
			return nil, config.EdgeError(i, "unknown source node %q", src)
		}
		child := g.Variable(dst)
		if child == nil {
			return nil, config.EdgeError(i, "unknown target node %q", dst)
		}
		key := [2]int{parent.ID, child.ID}
		if prev, dup := seen[key]; dup {
			return nil, config.EdgeError(i, "same as edge at index %d", prev)
		}
		seen[key] = i
		g.AddEdge(parent, child)
	}

	if cerr := g.FindCycle(); cerr != nil {
		return nil, &config.ConfigError{Section: "edges", Index: -1, Err: cerr}
	}
	return g, nil
}
