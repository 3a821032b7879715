package mediate

import (
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// OpenAPISpec is the root OpenAPI 3.1 document.
type OpenAPISpec struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       OpenAPIInfo         `json:"info" yaml:"info"`
	Tags       []Tag               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components *Components         `json:"components,omitempty" yaml:"components,omitempty"`
}

// OpenAPIInfo carries the document's title and version.
type OpenAPIInfo struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// Tag is a documented tag with an optional description.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Components holds reusable schema definitions referenced via $ref.
type Components struct {
	Schemas map[string]JSONSchema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// PathItem maps lowercased HTTP methods to operations.
type PathItem map[string]Operation

// Operation is a single method+path entry in the document.
type Operation struct {
	Summary     string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	OperationID string        `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody  `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   OperationResp `json:"responses" yaml:"responses"`
	Deprecated  bool          `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Parameter is one path, query, header, or cookie parameter.
type Parameter struct {
	Name        string     `json:"name" yaml:"name"`
	In          string     `json:"in" yaml:"in"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      JSONSchema `json:"schema" yaml:"schema"`
}

// RequestBody documents the operation's request body.
type RequestBody struct {
	Required bool                `json:"required" yaml:"required"`
	Content  map[string]MediaObj `json:"content" yaml:"content"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OperationResp maps HTTP status codes (or "default") to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj documents a single response.
type ResponseObj struct {
	Description string              `json:"description" yaml:"description"`
	Content     map[string]MediaObj `json:"content,omitempty" yaml:"content,omitempty"`
}

// Spec generates the full OpenAPI 3.1 document from registered routes.
func (r *Router) Spec() OpenAPISpec {
	spec := OpenAPISpec{
		OpenAPI: "3.1.0",
		Info:    OpenAPIInfo{Title: r.title, Version: r.version},
		Paths:   make(map[string]PathItem),
		Tags:    r.specTags(),
	}

	sr := newSchemaRegistry()

	for i := range r.routes {
		ri := &r.routes[i]
		path := toOpenAPIPath(ri.pattern)

		item := spec.Paths[path]
		if item == nil {
			item = make(PathItem)
			spec.Paths[path] = item
		}
		item[strings.ToLower(ri.method)] = r.buildOperation(ri, sr)
	}

	if len(sr.defs) > 0 {
		spec.Components = &Components{Schemas: sr.defs}
	}
	return spec
}

// specTags collects declared tag descriptions, sorted by name.
func (r *Router) specTags() []Tag {
	if len(r.tagDescs) == 0 {
		return nil
	}
	tags := make([]Tag, 0, len(r.tagDescs))
	for name, desc := range r.tagDescs {
		tags = append(tags, Tag{Name: name, Description: desc})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// buildOperation creates an Operation from a routeInfo. Responses come
// from the merged response metadata providers.
func (r *Router) buildOperation(ri *routeInfo, sr *schemaRegistry) Operation {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		OperationID: ri.operationID,
		Deprecated:  ri.deprecated,
		Responses:   make(OperationResp),
	}

	if op.OperationID == "" {
		op.OperationID = generateOperationID(ri.method, ri.pattern)
	}

	if ri.reqType != nil && ri.reqType != reflect.TypeFor[Void]() {
		op.Parameters = extractParameters(ri.reqType, sr)
		op.RequestBody = extractRequestBody(ri.reqType, ri.method, sr)
	}

	declared := declaredResponseType(ri.respType)

	entries := mergeResponses(declared, ri.responses, r.conventions, r.defaultErr, ri.status)
	for _, e := range entries {
		op.Responses[responseKey(e)] = r.renderResponse(e, sr)
	}

	// Nothing declared and nothing inferable: document a bare 200.
	if len(op.Responses) == 0 {
		op.Responses[strconv.Itoa(ri.status)] = ResponseObj{Description: http.StatusText(ri.status)}
	}

	return op
}

func responseKey(e responseEntry) string {
	if e.Default && e.Status == 0 {
		return "default"
	}
	return strconv.Itoa(e.Status)
}

// renderResponse converts a merged descriptor into a response object.
// Entries with no accumulated media types fall back to everything the
// codec registry can negotiate at request time.
func (r *Router) renderResponse(e responseEntry, sr *schemaRegistry) ResponseObj {
	desc := http.StatusText(e.Status)
	switch {
	case e.Default && e.Status == 0:
		desc = "Unexpected error"
	case desc == "":
		desc = "Response"
	}

	if e.Type == nil {
		if e.Status == http.StatusNoContent {
			desc = "No content"
		}
		return ResponseObj{Description: desc}
	}

	schema := sr.typeToSchema(e.Type)

	cts := e.ContentTypes
	if len(cts) == 0 {
		cts = r.codecs.contentTypes()
	}

	content := make(map[string]MediaObj, len(cts))
	for _, ct := range cts {
		content[ct] = MediaObj{Schema: &schema}
	}

	return ResponseObj{Description: desc, Content: content}
}

// extractParameters builds OpenAPI parameters from param-tagged fields.
// Path parameters are always required; others only when tagged so.
func extractParameters(t reflect.Type, sr *schemaRegistry) []Parameter {
	t = derefStruct(t)
	if t == nil {
		return nil
	}

	var params []Parameter
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tagName := range paramTags {
			name := f.Tag.Get(tagName)
			if name == "" {
				continue
			}
			params = append(params, Parameter{
				Name:        name,
				In:          tagName,
				Description: f.Tag.Get("doc"),
				Required:    tagName == "path" || f.Tag.Get("required") == "true",
				Schema:      sr.typeToSchema(f.Type),
			})
		}
	}
	return params
}

// jsonBody wraps a schema into a required application/json request body.
func jsonBody(schema JSONSchema) *RequestBody {
	return &RequestBody{
		Required: true,
		Content:  map[string]MediaObj{"application/json": {Schema: &schema}},
	}
}

// extractRequestBody documents the request body: the Body field's type
// when one exists, otherwise the whole struct for body-carrying methods
// with no param tags.
func extractRequestBody(t reflect.Type, method string, sr *schemaRegistry) *RequestBody {
	t = derefStruct(t)
	if t == nil {
		return nil
	}

	if bodyField, ok := t.FieldByName("Body"); ok {
		return jsonBody(sr.typeToSchema(bodyField.Type))
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if !hasParamTags(t) {
			return jsonBody(sr.typeToSchema(t))
		}
	}
	return nil
}

// generateOperationID derives an operationId from the method and
// pattern, e.g. "GET /orders/{id}" → "get-orders-id".
func generateOperationID(method, pattern string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for part := range strings.SplitSeq(pattern, "/") {
		part = strings.Trim(part, "{}")
		part = strings.TrimSuffix(part, "...")
		if part == "" {
			continue
		}
		b.WriteByte('-')
		b.WriteString(strings.ToLower(part))
	}

	return b.String()
}

// toOpenAPIPath converts a Go 1.22 pattern like "/users/{id}" to an
// OpenAPI path. Wildcard suffixes lose the ellipsis.
func toOpenAPIPath(pattern string) string {
	return strings.ReplaceAll(pattern, "...", "")
}
