package config

import (
	"gopkg.in/yaml.v3"
)

// intPreferences and stringPreferences list the preference keys whose type
// is checked when the file is decoded. Unknown keys are ignored.
var (
	intPreferences    = []string{"grid_size_x", "grid_size_y", "data_threshold", "workers", "max_conditions"}
	stringPreferences = []string{"csv_delimiter", "network_name"}
)

// Parse decodes a JSON or YAML network document. Every field is type
// checked by hand so the error names the offending node, edge or field;
// decoding stops at the first problem.
func Parse(data []byte) (*NetworkConfig, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Index: -1, Msg: "syntax error", Err: err}
	}
	root, ok := doc.(map[string]interface{})
	if !ok {
		return nil, docErr("outermost entity must be a mapping")
	}

	cfg := &NetworkConfig{}
	prefs, err := decodePreferences(root)
	if err != nil {
		return nil, err
	}
	cfg.Preferences = prefs

	if cfg.Nodes, err = decodeNodes(root); err != nil {
		return nil, err
	}
	if cfg.Edges, err = decodeEdges(root); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodePreferences(root map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := root["preferences"]
	if !ok {
		return nil, docErr("could not find the field 'preferences'")
	}
	if raw == nil {
		return map[string]interface{}{}, nil
	}
	prefs, ok := raw.(map[string]interface{})
	if !ok {
		return nil, docErr("the field 'preferences' must be a mapping")
	}
	for _, key := range intPreferences {
		if v, ok := prefs[key]; ok {
			if _, isInt := v.(int); !isInt {
				return nil, prefErr(key, "must be of type 'int'")
			}
		}
	}
	for _, key := range stringPreferences {
		if v, ok := prefs[key]; ok {
			if _, isString := v.(string); !isString {
				return nil, prefErr(key, "must be of type 'string'")
			}
		}
	}
	return prefs, nil
}

func decodeNodes(root map[string]interface{}) ([]NodeDecl, error) {
	raw, ok := root["nodes"]
	if !ok {
		return nil, docErr("could not find the field 'nodes'")
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, docErr("the field 'nodes' must be of type 'array'")
	}
	if len(items) == 0 {
		return nil, docErr("the array 'nodes' is empty")
	}

	nodes := make([]NodeDecl, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, nodeErr(i, "", "node must be a mapping")
		}
		var n NodeDecl
		var err error
		if n.Name, err = requiredString(m, i, "name"); err != nil {
			return nil, err
		}
		n.Column = n.Name
		if v, ok := m["csv_name"]; ok {
			s, isString := v.(string)
			if !isString {
				return nil, nodeErr(i, "csv_name", "must be of type 'string'")
			}
			n.Column = s
		}
		if n.Values, err = decodeValues(m, i); err != nil {
			return nil, err
		}
		if n.Position, err = requiredString(m, i, "position"); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func requiredString(m map[string]interface{}, i int, field string) (string, error) {
	v, ok := m[field]
	if !ok {
		return "", nodeErr(i, field, "missing field")
	}
	s, ok := v.(string)
	if !ok {
		return "", nodeErr(i, field, "must be of type 'string'")
	}
	return s, nil
}

func decodeValues(m map[string]interface{}, i int) ([]string, error) {
	v, ok := m["values"]
	if !ok {
		return nil, nodeErr(i, "values", "missing field")
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, nodeErr(i, "values", "must be of type 'array'")
	}
	values := make([]string, 0, len(items))
	for j, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, nodeErr(i, "values", "value at index %d: type must be 'string'", j)
		}
		values = append(values, s)
	}
	return values, nil
}

func decodeEdges(root map[string]interface{}) ([]string, error) {
	raw, ok := root["edges"]
	if !ok {
		return nil, docErr("could not find the field 'edges'")
	}
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, docErr("the field 'edges' must be of type 'array'")
	}
	edges := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, edgeErr(i, "edge must be of type 'string'")
		}
		edges = append(edges, s)
	}
	return edges, nil
}
