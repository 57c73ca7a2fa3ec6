package cleaning

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mlderes/dstoolkit/internal/frame"
)

// errNotMapping is returned by parseDict when the text is valid but not a
// mapping (e.g. a bare scalar or a list).
var errNotMapping = errors.New("not a dictionary literal")

// DictFromString parses a dictionary literal such as {'a': 1, "b": [2]}.
// Anything that is not a mapping yields an empty map.
func DictFromString(s string) map[string]any {
	m, err := parseDict(s)
	if err != nil {
		return map[string]any{}
	}
	return m
}

// TextToDict parses the selected columns' cells as dictionary literals.
// Missing cells become empty maps and maps are kept as they are. Cells that
// do not parse follow p: Ignore keeps the text, Coerce stores an empty map,
// Raise fails.
func TextToDict(f *frame.Frame, sel Selector, p Policy) (*frame.Frame, error) {
	out := f.Clone()
	for _, name := range sel.Resolve(out.Columns()) {
		col, _ := out.Column(name)
		for i, v := range col {
			switch x := v.(type) {
			case map[string]any:
				continue
			case string:
				m, err := parseDict(x)
				if err == nil {
					col[i] = m
					continue
				}
				switch p {
				case Coerce:
					col[i] = map[string]any{}
				case Raise:
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
			default:
				if frame.IsNA(v) {
					col[i] = map[string]any{}
					continue
				}
				switch p {
				case Coerce:
					col[i] = map[string]any{}
				case Raise:
					return nil, fmt.Errorf("column %q row %d: %w", name, i, errNotMapping)
				}
			}
		}
	}
	return out, nil
}

// parseDict reads a dict literal through the YAML flow-mapping grammar,
// which accepts single- and double-quoted keys, numbers, booleans and
// nested lists and maps. Keys are stringified and a repeated key keeps its
// last value.
func parseDict(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, errNotMapping
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	v, err := nodeValue(root)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return v.(map[string]any), nil
}

// nodeValue converts a YAML node into frame cell types. Only a plain,
// unquoted None scalar becomes nil; 'None' stays a string.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := nodeValue(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			key := n.Content[i].Value
			if k != nil {
				key = fmt.Sprint(k)
			}
			m[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 && n.Value == "None" {
			return nil, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		if i, ok := v.(int); ok {
			return int64(i), nil
		}
		return v, nil
	}
	return nil, errNotMapping
}
