// Package export renders an estimated network into interchange documents.
package export

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gyaneshwarpardhi/bayesnet/internal/engine"
)

// Network is everything an exporter needs: the estimated tables in registry
// order plus the document name and layout scale.
type Network struct {
	Name   string
	GridX  int
	GridY  int
	Result *engine.Result
}

// Exporter is the interface all output formats must satisfy.
type Exporter interface {
	// Format returns the name this exporter is registered under.
	Format() string
	// Extension is the file extension, including the dot.
	Extension() string
	Export(w io.Writer, n *Network) error
}

// OutputPath replaces the extension of input with ext.
func OutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
