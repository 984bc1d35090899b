package markup

import (
	"strconv"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// YAML serialization of markup trees, used for storing operator-authored
// templates in config files. Trees round-trip through the custom tags
// !Tag, !slot and !ColorCode.

const (
	yamlTagTag   = "!Tag"
	yamlTagSlot  = "!slot"
	yamlTagColor = "!ColorCode"
)

// MarshalNode serializes a tree to YAML.
func MarshalNode(n Node) ([]byte, error) {
	y, err := nodeToYAML(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(y)
}

// UnmarshalNode deserializes a tree from YAML.
func UnmarshalNode(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal markup tree")
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return yamlToNode(doc.Content[0])
	}
	return yamlToNode(&doc)
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func nodeToYAML(n Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case Text:
		return scalarNode("!!str", string(v)), nil
	case Slot:
		return scalarNode(yamlTagSlot, string(v)), nil
	case *Tag:
		return tagToYAML(v)
	}
	return nil, errors.Errorf("cannot serialize node %T", n)
}

func tagToYAML(t *Tag) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: yamlTagTag}
	add := func(key string, value *yaml.Node) {
		out.Content = append(out.Content, scalarNode("!!str", key), value)
	}
	add("name", scalarNode("!!str", t.TagName()))
	if len(t.Attrs) > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, a := range t.Attrs {
			val, err := attrToYAML(a.Value)
			if err != nil {
				return nil, err
			}
			attrs.Content = append(attrs.Content, scalarNode("!!str", a.Name), val)
		}
		add("attributes", attrs)
	}
	children := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, c := range t.Children {
		y, err := nodeToYAML(c)
		if err != nil {
			return nil, err
		}
		children.Content = append(children.Content, y)
	}
	add("children", children)
	return out, nil
}

func attrToYAML(v interface{}) (*yaml.Node, error) {
	switch a := v.(type) {
	case string:
		return scalarNode("!!str", a), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(a)), nil
	case ColorCode:
		return scalarNode(yamlTagColor, a.Name()), nil
	case HexColor:
		return scalarNode("!!str", string(a)), nil
	case *Tag:
		return tagToYAML(a)
	}
	return nil, errors.Errorf("cannot serialize attribute %T", v)
}

func yamlToNode(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		switch y.Tag {
		case yamlTagSlot:
			return Slot(y.Value), nil
		case yamlTagColor:
			code, ok := ColorByName(y.Value)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidColor, "yaml color %q", y.Value)
			}
			return Text(code.Name()), nil
		default:
			return Text(y.Value), nil
		}
	case yaml.MappingNode:
		return yamlToTag(y)
	case yaml.AliasNode:
		return yamlToNode(y.Alias)
	}
	return nil, errors.Errorf("unexpected yaml node kind %d for markup tree", y.Kind)
}

func yamlToTag(y *yaml.Node) (*Tag, error) {
	if y.Tag != yamlTagTag && y.Tag != "!!map" {
		return nil, errors.Errorf("unexpected yaml tag %q for markup tag", y.Tag)
	}
	out := &Tag{}
	for i := 0; i+1 < len(y.Content); i += 2 {
		key, val := y.Content[i].Value, y.Content[i+1]
		switch key {
		case "name":
			out.Kind = KindByTagName(val.Value)
			if out.Kind == KindUnknown || out.Kind == KindHeader {
				out.Name = val.Value
			}
		case "attributes":
			for j := 0; j+1 < len(val.Content); j += 2 {
				attrVal, err := yamlToAttr(val.Content[j+1])
				if err != nil {
					return nil, err
				}
				out.SetAttr(val.Content[j].Value, attrVal)
			}
		case "children":
			for _, c := range val.Content {
				child, err := yamlToNode(c)
				if err != nil {
					return nil, err
				}
				out.Children = append(out.Children, child)
			}
		}
	}
	return out, nil
}

func yamlToAttr(y *yaml.Node) (interface{}, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		switch y.Tag {
		case yamlTagColor:
			code, ok := ColorByName(y.Value)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidColor, "yaml color %q", y.Value)
			}
			return code, nil
		case "!!bool":
			return strconv.ParseBool(y.Value)
		case yamlTagSlot:
			// An attribute-level slot is a one-child deferred subtree.
			return &Tag{Kind: KindRoot, Children: []Node{Slot(y.Value)}}, nil
		default:
			return y.Value, nil
		}
	case yaml.MappingNode:
		return yamlToTag(y)
	}
	return nil, errors.Errorf("unexpected yaml node kind %d for attribute", y.Kind)
}
