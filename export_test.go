package mediate

import "reflect"

// Test-only exports for internal functions.
var (
	HasParamTags  = hasParamTags
	HasBodyField  = hasBodyField
	HasRawRequest = hasRawRequest
	JSONFieldName = jsonFieldName

	GenerateOperationID  = generateOperationID
	DeclaredResponseType = declaredResponseType
	MergeResponses       = mergeResponses
)

// ResponseEntry exposes the merged descriptor for aggregation tests.
type ResponseEntry = responseEntry

// TestSchemaRegistry wraps schemaRegistry for external tests.
type TestSchemaRegistry struct {
	reg  *schemaRegistry
	Defs map[string]JSONSchema
}

// NewSchemaRegistry creates a TestSchemaRegistry for testing.
func NewSchemaRegistry() *TestSchemaRegistry {
	r := newSchemaRegistry()
	return &TestSchemaRegistry{reg: r, Defs: r.defs}
}

// TypeToSchema delegates to the internal registry.
func (t *TestSchemaRegistry) TypeToSchema(typ reflect.Type) JSONSchema {
	return t.reg.typeToSchema(typ)
}
