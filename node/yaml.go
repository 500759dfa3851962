package node

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ObjectTag marks a YAML mapping that should become an object instead of
// a mapping, e.g.
//
//	o: !object
//	  x: testfile7
const ObjectTag = "!object"

// FromYAML decodes a single YAML document into a graph. Integers, floats
// and booleans keep their type; nulls become empty files.
func FromYAML(r io.Reader) (Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewMapping(), nil
		}
		return nil, fmt.Errorf("failed to decode yaml content: %w", err)
	}

	return fromYAMLNode(&doc)
}

// FromYAMLFile is FromYAML reading from path.
func FromYAMLFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return FromYAML(f)
}

func fromYAMLNode(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAMLNode(y.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)

	case yaml.MappingNode:
		if y.Tag == ObjectTag {
			return fromYAMLObject(y)
		}
		m := NewMapping()
		err := eachYAMLPair(y, func(key string, child Node) error {
			m.Set(key, child)
			return nil
		})
		return m, err

	case yaml.SequenceNode:
		s := NewSequence()
		for i, item := range y.Content {
			child, err := fromYAMLNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			s.Append(child)
		}
		return s, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(y)

	default:
		return nil, fmt.Errorf("unsupported yaml node at line %d", y.Line)
	}
}

func fromYAMLObject(y *yaml.Node) (Node, error) {
	o := NewObject(ObjectTag)
	err := eachYAMLPair(y, func(key string, child Node) error {
		o.Assign(key, child)
		return nil
	})
	return o, err
}

func eachYAMLPair(y *yaml.Node, fn func(key string, child Node) error) error {
	for i := 0; i+1 < len(y.Content); i += 2 {
		key := y.Content[i].Value
		child, err := fromYAMLNode(y.Content[i+1])
		if err != nil {
			return fmt.Errorf("key '%s': %w", key, err)
		}
		if err := fn(key, child); err != nil {
			return err
		}
	}
	return nil
}

func fromYAMLScalar(y *yaml.Node) (Node, error) {
	switch y.ShortTag() {
	case "!!int":
		if i, err := strconv.ParseInt(y.Value, 0, 64); err == nil {
			return Int(i), nil
		}
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		return Int(i), nil

	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		return Float(f), nil

	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		return Bool(b), nil

	case "!!null":
		return String(""), nil

	case "!!binary":
		var b []byte
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		return Bytes(b), nil

	default:
		return String(y.Value), nil
	}
}
