package config

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed or inconsistent network declaration.
// Section is "node", "edge", "preferences" or empty for document-level
// problems; Index is the position inside the section or -1.
type ConfigError struct {
	Section string
	Index   int
	Field   string
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("bad config")
	switch {
	case e.Section != "" && e.Index >= 0:
		fmt.Fprintf(&b, ": %s at index %d", e.Section, e.Index)
	case e.Section != "":
		fmt.Fprintf(&b, ": %s", e.Section)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field '%s'", e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

func docErr(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Index: -1, Msg: fmt.Sprintf(format, args...)}
}

func nodeErr(i int, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Section: "node", Index: i, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func edgeErr(i int, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Section: "edge", Index: i, Msg: fmt.Sprintf(format, args...)}
}

func prefErr(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Section: "preferences", Index: -1, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// EdgeError builds the error for an edge declaration that cannot be
// resolved against the declared nodes.
func EdgeError(i int, format string, args ...interface{}) error {
	return edgeErr(i, format, args...)
}
