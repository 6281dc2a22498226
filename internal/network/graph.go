package network

import "fmt"

// Graph is the registry of variables in declaration order plus the
// parent/child relation between them. It is immutable once Build returns.
type Graph struct {
	vars     []*Variable
	byName   map[string]*Variable
	byColumn map[string]*Variable
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		byName:   make(map[string]*Variable),
		byColumn: make(map[string]*Variable),
	}
}

// AddVariable registers a variable and assigns its ID.
func (g *Graph) AddVariable(name, column string, domain []string, row, col int) (*Variable, error) {
	if _, dup := g.byName[name]; dup {
		return nil, fmt.Errorf("variable %q already registered", name)
	}
	if _, dup := g.byColumn[column]; dup {
		return nil, fmt.Errorf("column %q already registered", column)
	}
	v := newVariable(len(g.vars), name, column, domain, row, col)
	g.vars = append(g.vars, v)
	g.byName[name] = v
	g.byColumn[column] = v
	return v, nil
}

// AddEdge records parent as a direct predecessor of child.
func (g *Graph) AddEdge(parent, child *Variable) {
	parent.children = append(parent.children, child)
	child.parents = append(child.parents, parent)
}

// Variable returns a variable by name (nil if not found).
func (g *Graph) Variable(name string) *Variable {
	return g.byName[name]
}

// ByColumn returns the variable bound to a dataset column (nil if none).
func (g *Graph) ByColumn(column string) *Variable {
	return g.byColumn[column]
}

// Variables returns all variables in registry order.
func (g *Graph) Variables() []*Variable {
	return g.vars
}

// Len returns the number of registered variables.
func (g *Graph) Len() int {
	return len(g.vars)
}

// Roots returns the variables without parents, in registry order.
func (g *Graph) Roots() []*Variable {
	var roots []*Variable
	for _, v := range g.vars {
		if len(v.parents) == 0 {
			roots = append(roots, v)
		}
	}
	return roots
}

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, v := range g.vars {
		n += len(v.parents)
	}
	return n
}
