package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlNetwork struct {
	Name  string     `yaml:"name"`
	Nodes []yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	Name     string    `yaml:"name"`
	Column   string    `yaml:"csv_name"`
	Values   []string  `yaml:"values,flow"`
	Position [2]int    `yaml:"position,flow"`
	Parents  []string  `yaml:"parents,flow,omitempty"`
	CPD      []yamlRow `yaml:"cpd"`
}

type yamlRow struct {
	Given    []string `yaml:"given,flow,omitempty"`
	P        []string `yaml:"p,flow"`
	Fallback bool     `yaml:"fallback,omitempty"`
}

// YAML writes the same content as XMLBIF as a YAML document. Probabilities
// stay decimal strings so no precision is lost.
type YAML struct{}

func (YAML) Format() string    { return "yaml" }
func (YAML) Extension() string { return ".yaml" }

func (YAML) Export(w io.Writer, n *Network) error {
	doc := yamlNetwork{Name: n.Name}
	for _, t := range n.Result.Tables {
		v := t.Var
		x, y := v.Layout(n.GridX, n.GridY)
		node := yamlNode{
			Name:     v.Name,
			Column:   v.Column,
			Values:   v.Domain,
			Position: [2]int{x, y},
		}
		for _, p := range v.Parents() {
			node.Parents = append(node.Parents, p.Name)
		}
		for i, r := range t.Rows {
			node.CPD = append(node.CPD, yamlRow{
				Given:    t.Conditions[i].Labels(),
				P:        r.Strings(),
				Fallback: t.Fallback[i],
			})
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
