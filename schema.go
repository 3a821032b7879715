package mediate

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// JSONSchema is the subset of JSON Schema the OpenAPI builder emits.
type JSONSchema struct {
	Type        string                `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string                `json:"format,omitempty" yaml:"format,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string              `json:"required,omitempty" yaml:"required,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Ref         string                `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// AdditionalProperties can be a schema describing map values.
	AdditionalProperties *JSONSchema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// schemaRegistry collects named struct schemas so operations can
// reference them via $ref instead of inlining.
type schemaRegistry struct {
	defs  map[string]JSONSchema
	names map[reflect.Type]string
}

func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{
		defs:  make(map[string]JSONSchema),
		names: make(map[reflect.Type]string),
	}
}

// refFor returns a $ref schema pointing at the component with the given name.
func refFor(name string) JSONSchema {
	return JSONSchema{Ref: "#/components/schemas/" + name}
}

// typeToSchema converts a reflect.Type to a JSONSchema. Named struct
// types are registered as components and returned as $ref schemas;
// anonymous structs stay inline.
func (sr *schemaRegistry) typeToSchema(t reflect.Type) JSONSchema {
	if t.Kind() == reflect.Pointer {
		return sr.typeToSchema(t.Elem())
	}

	// Well-known types get string formats instead of their underlying
	// representation.
	switch t {
	case reflect.TypeFor[time.Time]():
		return JSONSchema{Type: "string", Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return JSONSchema{Type: "string", Format: "duration"}
	case reflect.TypeFor[Void]():
		return JSONSchema{}
	}

	//exhaustive:ignore
	switch k := t.Kind(); k {
	case reflect.String:
		return JSONSchema{Type: "string"}
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSONSchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return JSONSchema{Type: "number"}
	case reflect.Slice, reflect.Array:
		if k == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", Format: "byte"}
		}
		items := sr.typeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Map:
		// Only string-keyed maps translate to JSON objects with typed
		// values.
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}
		}
		vals := sr.typeToSchema(t.Elem())
		return JSONSchema{Type: "object", AdditionalProperties: &vals}
	case reflect.Struct:
		if t.Name() == "" {
			return sr.structToSchema(t)
		}
		return refFor(sr.register(t))
	default:
		// Interfaces and anything unrepresentable become the empty
		// (any-typed) schema.
		return JSONSchema{}
	}
}

// register adds a named struct type to the components and returns its
// component name. The name is claimed before the schema is built so
// recursive types terminate.
func (sr *schemaRegistry) register(t reflect.Type) string {
	if name, ok := sr.names[t]; ok {
		return name
	}

	name := t.Name()
	for i := 2; ; i++ {
		if _, taken := sr.defs[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", t.Name(), i)
	}

	sr.names[t] = name
	sr.defs[name] = JSONSchema{} // claim
	sr.defs[name] = sr.structToSchema(t)
	return name
}

// structToSchema builds an object schema from a struct's body fields.
// Parameter-bound fields and the RawRequest escape hatch are not part
// of the body and are skipped.
func (sr *schemaRegistry) structToSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}

	for i := range t.NumField() {
		f := t.Field(i)
		switch {
		case !f.IsExported():
			continue
		case isParamField(f):
			continue
		case f.Type == reflect.TypeFor[RawRequest]():
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop := sr.typeToSchema(f.Type)
		prop.Description = f.Tag.Get("doc")
		schema.Properties[name] = prop

		if f.Tag.Get("required") == "true" || tagRequiresField(f) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// tagRequiresField reports whether a validate tag marks the field required.
func tagRequiresField(f reflect.StructField) bool {
	opts := f.Tag.Get("validate")
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "required" {
			return true
		}
	}
	return false
}
