package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	jsonrescue "github.com/juburr/jsonrescue"
)

// schemaDoc is the YAML/JSON-decodable shape of a jsonrescue.Schema file.
// It mirrors jsonrescue.Schema's fields so a caller can describe a schema
// declaratively instead of building it with the Object/Array/String
// constructors in Go code.
type schemaDoc struct {
	Kind       string                `yaml:"kind"`
	Properties map[string]*schemaDoc `yaml:"properties,omitempty"`
	Items      *schemaDoc            `yaml:"items,omitempty"`
	Required   []string              `yaml:"required,omitempty"`
}

func loadSchemaFile(path string) (*jsonrescue.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var doc schemaDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	return doc.toSchema()
}

func (d *schemaDoc) toSchema() (*jsonrescue.Schema, error) {
	if d == nil {
		return nil, nil
	}

	switch jsonrescue.Kind(d.Kind) {
	case jsonrescue.KindObject:
		properties := make(map[string]*jsonrescue.Schema, len(d.Properties))
		for name, sub := range d.Properties {
			converted, err := sub.toSchema()
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			properties[name] = converted
		}
		return jsonrescue.Object(properties, d.Required...), nil

	case jsonrescue.KindArray:
		items, err := d.Items.toSchema()
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		return jsonrescue.Array(items), nil

	case jsonrescue.KindString:
		return jsonrescue.String(), nil
	case jsonrescue.KindNumber:
		return jsonrescue.Number(), nil
	case jsonrescue.KindBoolean:
		return jsonrescue.Boolean(), nil
	case jsonrescue.KindNull:
		return jsonrescue.Null(), nil
	default:
		return nil, fmt.Errorf("unknown schema kind %q", d.Kind)
	}
}
