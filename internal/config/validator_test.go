package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *NetworkConfig {
	return &NetworkConfig{
		Preferences: map[string]interface{}{},
		Nodes: []NodeDecl{
			{Name: "Coin", Column: "Coin", Values: []string{"Heads", "Tails"}, Position: "(1, 1)"},
			{Name: "Result", Column: "result", Values: []string{"Win", "Lose"}, Position: "(2/1)"},
		},
		Edges: []string{"Coin -> Result"},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_Violations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *NetworkConfig)
		section string
		index   int
		field   string
	}{
		{"no nodes", func(c *NetworkConfig) { c.Nodes = nil }, "", -1, ""},
		{"name starts with digit", func(c *NetworkConfig) { c.Nodes[1].Name = "1Result" }, "node", 1, "name"},
		{"name with dash", func(c *NetworkConfig) { c.Nodes[0].Name = "Co-in" }, "node", 0, "name"},
		{"duplicate name", func(c *NetworkConfig) { c.Nodes[1].Name = "Coin" }, "node", 1, "name"},
		{"empty column", func(c *NetworkConfig) { c.Nodes[0].Column = "" }, "node", 0, "csv_name"},
		{"duplicate column", func(c *NetworkConfig) { c.Nodes[1].Column = "Coin" }, "node", 1, "csv_name"},
		{"empty domain", func(c *NetworkConfig) { c.Nodes[0].Values = nil }, "node", 0, "values"},
		{"empty value", func(c *NetworkConfig) { c.Nodes[0].Values = []string{"Heads", ""} }, "node", 0, "values"},
		{"duplicate value", func(c *NetworkConfig) { c.Nodes[1].Values = []string{"Win", "Win"} }, "node", 1, "values"},
		{"bad position", func(c *NetworkConfig) { c.Nodes[0].Position = "1,1" }, "node", 0, "position"},
		{"zero position", func(c *NetworkConfig) { c.Nodes[0].Position = "(0,1)" }, "node", 0, "position"},
		{"bad edge", func(c *NetworkConfig) { c.Edges = []string{"Coin Result"} }, "edge", 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "want *ConfigError, got %v", err)
			assert.Equal(t, tc.section, cerr.Section)
			assert.Equal(t, tc.index, cerr.Index)
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestValidate_DuplicateValueMessage(t *testing.T) {
	cfg := validConfig()
	cfg.Nodes[0].Values = []string{"Heads", "Tails", "Heads"}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value at index 2: identical to value at index 0")
}

func TestParsePosition(t *testing.T) {
	cases := []struct {
		in       string
		row, col int
		ok       bool
	}{
		{"(1,1)", 1, 1, true},
		{" ( 3 / 12 ) ", 3, 12, true},
		{"(2, 7)", 2, 7, true},
		{"(01,1)", 0, 0, false},
		{"(1;1)", 0, 0, false},
		{"1,1", 0, 0, false},
		{"(-1,1)", 0, 0, false},
	}
	for _, tc := range cases {
		row, col, err := ParsePosition(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.row, row, tc.in)
		assert.Equal(t, tc.col, col, tc.in)
	}
}

func TestParseEdge(t *testing.T) {
	src, dst, ok := ParseEdge("  Rain->GrassWet ")
	require.True(t, ok)
	assert.Equal(t, "Rain", src)
	assert.Equal(t, "GrassWet", dst)

	src, dst, ok = ParseEdge("A => B")
	require.True(t, ok)
	assert.Equal(t, "A", src)
	assert.Equal(t, "B", dst)

	_, _, ok = ParseEdge("A - B")
	assert.False(t, ok)
	_, _, ok = ParseEdge("-> B")
	assert.False(t, ok)
}
