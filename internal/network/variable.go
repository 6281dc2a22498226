package network

// Variable is a discrete node of the network. Parents and Children point into
// the owning Graph's registry; a Variable is never copied once built.
type Variable struct {
	ID     int    // registry position, stable for the Graph's lifetime
	Name   string // identifier, also used in exported documents
	Column string // dataset column holding this variable's observations
	Domain []string
	Row    int
	Col    int

	parents    []*Variable
	children   []*Variable
	valueIndex map[string]int
}

func newVariable(id int, name, column string, domain []string, row, col int) *Variable {
	idx := make(map[string]int, len(domain))
	for i, v := range domain {
		idx[v] = i
	}
	return &Variable{
		ID:         id,
		Name:       name,
		Column:     column,
		Domain:     domain,
		Row:        row,
		Col:        col,
		valueIndex: idx,
	}
}

// Parents returns the parents in edge declaration order.
func (v *Variable) Parents() []*Variable { return v.parents }

// Children returns the children in edge declaration order.
func (v *Variable) Children() []*Variable { return v.children }

// Cardinality is the size of the value domain.
func (v *Variable) Cardinality() int { return len(v.Domain) }

// ValueIndex resolves a value label to its position in the domain.
func (v *Variable) ValueIndex(value string) (int, bool) {
	i, ok := v.valueIndex[value]
	return i, ok
}

// Layout converts the grid position into absolute coordinates.
func (v *Variable) Layout(gridX, gridY int) (x, y int) {
	return v.Col * gridX, v.Row * gridY
}
