package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const xmlbifPreamble = `<?xml version="1.0" encoding="UTF-8"?>

<!--
	Bayesian network in XMLBIF v0.3 (BayesNet Interchange Format)
-->

<!-- DTD for the XMLBIF 0.3 format -->
<!DOCTYPE BIF [
	<!ELEMENT BIF ( NETWORK )*>
	      <!ATTLIST BIF VERSION CDATA #REQUIRED>
	<!ELEMENT NETWORK ( NAME, ( PROPERTY | VARIABLE | DEFINITION )* )>
	<!ELEMENT NAME (#PCDATA)>
	<!ELEMENT VARIABLE ( NAME, ( OUTCOME |  PROPERTY )* ) >
	      <!ATTLIST VARIABLE TYPE (nature|decision|utility) "nature">
	<!ELEMENT OUTCOME (#PCDATA)>
	<!ELEMENT DEFINITION ( FOR | GIVEN | TABLE | PROPERTY )* >
	<!ELEMENT FOR (#PCDATA)>
	<!ELEMENT GIVEN (#PCDATA)>
	<!ELEMENT TABLE (#PCDATA)>
	<!ELEMENT PROPERTY (#PCDATA)>
]>

`

type bifDocument struct {
	XMLName xml.Name   `xml:"BIF"`
	Version string     `xml:"VERSION,attr"`
	Network bifNetwork `xml:"NETWORK"`
}

type bifNetwork struct {
	Name  string `xml:"NAME"`
	Items []interface{}
}

type bifVariable struct {
	XMLName  xml.Name `xml:"VARIABLE"`
	Type     string   `xml:"TYPE,attr"`
	Name     string   `xml:"NAME"`
	Outcomes []string `xml:"OUTCOME"`
	Property string   `xml:"PROPERTY"`
}

type bifDefinition struct {
	XMLName xml.Name `xml:"DEFINITION"`
	For     string   `xml:"FOR"`
	Given   []string `xml:"GIVEN"`
	Table   bifTable `xml:"TABLE"`
}

// bifTable is written raw so row breaks stay literal newlines; it only ever
// holds digits, dots, spaces and newlines.
type bifTable struct {
	Rows string `xml:",innerxml"`
}

// XMLBIF writes XMLBIF 0.3: per node a VARIABLE followed by its DEFINITION,
// table rows separated by newlines and entries by spaces.
type XMLBIF struct{}

func (XMLBIF) Format() string    { return "xmlbif" }
func (XMLBIF) Extension() string { return ".xbif" }

func (XMLBIF) Export(w io.Writer, n *Network) error {
	doc := bifDocument{Version: "0.3", Network: bifNetwork{Name: n.Name}}
	for _, t := range n.Result.Tables {
		v := t.Var
		x, y := v.Layout(n.GridX, n.GridY)
		doc.Network.Items = append(doc.Network.Items, bifVariable{
			Type:     "nature",
			Name:     v.Name,
			Outcomes: v.Domain,
			Property: fmt.Sprintf("position = (%d,%d)", x, y),
		})

		def := bifDefinition{For: v.Name}
		for _, p := range v.Parents() {
			def.Given = append(def.Given, p.Name)
		}
		lines := make([]string, len(t.Rows))
		for i, r := range t.Rows {
			lines[i] = strings.Join(r.Strings(), " ")
		}
		def.Table.Rows = strings.Join(lines, "\n")
		doc.Network.Items = append(doc.Network.Items, def)
	}

	if _, err := io.WriteString(w, xmlbifPreamble); err != nil {
		return fmt.Errorf("write xmlbif preamble: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xmlbif: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write xmlbif: %w", err)
	}
	return nil
}
