package mediate

import (
	"reflect"
	"strings"
)

// paramTags are the struct tags the binder reads request parameters from.
var paramTags = []string{"path", "query", "header", "cookie"}

func isParamField(f reflect.StructField) bool {
	for _, tag := range paramTags {
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// hasParamTags reports whether any exported field of t carries a
// parameter binding tag.
func hasParamTags(t reflect.Type) bool {
	t = derefStruct(t)
	if t == nil {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() && isParamField(f) {
			return true
		}
	}
	return false
}

// hasRawRequest reports whether t has a RawRequest field.
func hasRawRequest(t reflect.Type) bool {
	t = derefStruct(t)
	if t == nil {
		return false
	}
	for i := range t.NumField() {
		if t.Field(i).Type == reflect.TypeFor[RawRequest]() {
			return true
		}
	}
	return false
}

// hasBodyField reports whether t has an exported "Body" field.
func hasBodyField(t reflect.Type) bool {
	t = derefStruct(t)
	if t == nil {
		return false
	}
	_, ok := t.FieldByName("Body")
	return ok
}

// derefStruct unwraps a pointer and returns nil for non-struct types.
func derefStruct(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// jsonFieldName resolves the name a field marshals under: the json tag
// when present, the Go name otherwise.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}
