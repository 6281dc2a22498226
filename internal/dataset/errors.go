package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// DataError reports a dataset that does not fit the network: no records,
// a missing column, or a value outside its variable's domain.
type DataError struct {
	Row    int // 1-based record number, 0 when not tied to a record
	Column string
	Msg    string
	Record Record
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("bad data")
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column '%s'", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Record != nil {
		fmt.Fprintf(&b, " (row content: %s)", formatRecord(e.Record))
	}
	return b.String()
}

func formatRecord(r Record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, r[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
