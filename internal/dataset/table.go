// Package dataset loads categorical observations and answers conjunctive
// count queries over them.
package dataset

// Record is one observation. A column absent from the map is missing for
// this record.
type Record map[string]string

// Table is an ordered set of records plus the header they were read with.
type Table struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// HasColumn reports whether the header declares column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}
