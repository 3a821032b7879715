package mediate

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"
)

// reqShape says where a request type's data comes from on the wire.
type reqShape int

const (
	shapeVoid     reqShape = iota // Void: nothing to bind
	shapeBodyOnly                 // whole struct decoded from the body
	shapeParams                   // tagged fields only, no body
	shapeMixed                    // tagged fields plus a Body field
)

func classifyRequest(t reflect.Type) reqShape {
	switch {
	case t == reflect.TypeFor[Void]():
		return shapeVoid
	case hasBodyField(t):
		return shapeMixed
	case hasParamTags(t) || hasRawRequest(t):
		return shapeParams
	default:
		return shapeBodyOnly
	}
}

// decodeRequest creates a new Req value and populates it from the HTTP
// request: parameters first, then the body where the shape has one.
func decodeRequest[Req any](r *http.Request, codecs *codecRegistry) (*Req, error) {
	req := new(Req)

	shape := classifyRequest(reflect.TypeFor[Req]())
	if shape == shapeVoid {
		return req, nil
	}

	// bindParams also injects RawRequest.
	if err := bindParams(req, r); err != nil {
		return nil, err
	}

	switch shape {
	case shapeBodyOnly:
		if err := decodeBody(r, req, codecs); err != nil {
			return nil, err
		}
	case shapeMixed:
		body := reflect.ValueOf(req).Elem().FieldByName("Body").Addr().Interface()
		if err := decodeBody(r, body, codecs); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// decodeBody decodes the request body into target using the decoder
// matching the Content-Type header. Absent bodies are left zero.
func decodeBody(r *http.Request, target any, codecs *codecRegistry) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	dec, ok := codecs.decoderFor(r.Header.Get("Content-Type"))
	if !ok {
		return Error(http.StatusUnsupportedMediaType, "unsupported content type")
	}

	if err := dec.Decode(r.Body, target); err != nil {
		return fmt.Errorf("%w: %w", ErrBindBody, err)
	}
	return nil
}

// paramSource reads one kind of request parameter by name.
type paramSource struct {
	tag      string
	sentinel error
	lookup   func(r *http.Request, name string) string
}

var paramSources = []paramSource{
	{"path", ErrBindPath, func(r *http.Request, name string) string {
		return r.PathValue(name)
	}},
	{"query", ErrBindQuery, func(r *http.Request, name string) string {
		return r.URL.Query().Get(name)
	}},
	{"header", ErrBindHeader, func(r *http.Request, name string) string {
		return r.Header.Get(name)
	}},
	{"cookie", ErrBindCookie, func(r *http.Request, name string) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}},
}

// bindParams fills tagged struct fields from the request: path, query,
// header, and cookie values, plus RawRequest injection. The Body field
// is skipped; decodeBody owns it.
func bindParams(target any, r *http.Request) error {
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "Body" {
			continue
		}

		if f.Type == reflect.TypeFor[RawRequest]() {
			v.Field(i).Set(reflect.ValueOf(RawRequest{Request: r}))
			continue
		}

		for _, src := range paramSources {
			name := f.Tag.Get(src.tag)
			if name == "" {
				continue
			}

			raw := src.lookup(r, name)
			if raw == "" && src.tag != "path" {
				raw = f.Tag.Get("default")
			}
			if raw == "" {
				continue
			}

			if err := assignField(v.Field(i), raw); err != nil {
				return fmt.Errorf("%w: %s: %w", src.sentinel, name, err)
			}
		}
	}

	return nil
}

// assignField parses raw into a struct field of a supported kind.
func assignField(field reflect.Value, raw string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err == nil {
			field.SetBool(b)
		}
		return err
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			field.SetInt(n)
		}
		return err
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err == nil {
			field.SetUint(n)
		}
		return err
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			field.SetFloat(n)
		}
		return err
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
}
