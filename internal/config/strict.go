package config

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// rejectUnknownKeys parses data as a generic YAML document and walks it
// alongside the Config struct shape, returning an error the first time a
// mapping key has no corresponding field. yaml.v3 has no KnownFields
// switch (unlike encoding/json), so unknown-key rejection is implemented
// by hand here.
func rejectUnknownKeys(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	return checkNode(doc.Content[0], reflect.TypeOf(Config{}), "")
}

func checkNode(node *yaml.Node, t reflect.Type, path string) error {
	if node == nil {
		return nil
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return checkStructNode(node, t, path)
	case reflect.Map:
		return checkMapNode(node, t, path)
	case reflect.Slice, reflect.Array:
		return checkSliceNode(node, t, path)
	default:
		// Scalars and interface{} (arbitrary JSON-like content, e.g.
		// ResponseBody.Content) accept any shape.
		return nil
	}
}

func checkStructNode(node *yaml.Node, t reflect.Type, path string) error {
	if node.Kind != yaml.MappingNode {
		// A nil block (e.g. `path:` with no value) decodes as scalar/null; nothing to check.
		return nil
	}

	fields := yamlFieldTypes(t)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		key := keyNode.Value

		fieldType, ok := fields[key]
		if !ok {
			label := path
			if label == "" {
				label = "<root>"
			}
			return fmt.Errorf("unknown field %q at %s (line %d)", key, label, keyNode.Line)
		}

		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		if err := checkNode(valNode, fieldType, childPath); err != nil {
			return err
		}
	}
	return nil
}

func checkMapNode(node *yaml.Node, t reflect.Type, path string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	elemType := t.Elem()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		childPath := keyNode.Value
		if path != "" {
			childPath = path + "." + childPath
		}
		if err := checkNode(valNode, elemType, childPath); err != nil {
			return err
		}
	}
	return nil
}

func checkSliceNode(node *yaml.Node, t reflect.Type, path string) error {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	elemType := t.Elem()
	for i, item := range node.Content {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		if err := checkNode(item, elemType, childPath); err != nil {
			return err
		}
	}
	return nil
}

// yamlFieldTypes returns the set of yaml field names declared on t,
// mapped to their Go type, honoring `yaml:"name"` tags and skipping
// `yaml:"-"`.
func yamlFieldTypes(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out[name] = f.Type
	}
	return out
}
