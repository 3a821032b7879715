package mediate

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// Encoder encodes response values to a wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder decodes request bodies from a wire format.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// JSONOptions are the JSON serializer settings consulted on every
// encode and decode.
type JSONOptions struct {
	// Indent is the indentation applied to encoded responses.
	// Empty means compact output.
	Indent string

	// DisableHTMLEscape turns off the escaping of <, >, and & in
	// encoded strings.
	DisableHTMLEscape bool

	// DisallowUnknownFields rejects request bodies containing fields
	// not present in the target type.
	DisallowUnknownFields bool
}

// jsonCodec implements both Encoder and Decoder for JSON, honoring the
// router's JSONOptions.
type jsonCodec struct {
	opts JSONOptions
}

func (jsonCodec) ContentType() string { return "application/json" }

func (c jsonCodec) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if c.opts.Indent != "" {
		enc.SetIndent("", c.opts.Indent)
	}
	if c.opts.DisableHTMLEscape {
		enc.SetEscapeHTML(false)
	}
	return enc.Encode(v)
}

func (c jsonCodec) Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if c.opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// xmlCodec implements both Encoder and Decoder for XML.
type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

func (xmlCodec) Decode(r io.Reader, v any) error {
	if err := xml.NewDecoder(r).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// formCodec decodes application/x-www-form-urlencoded bodies into
// structs via gorilla/schema. Decode only.
type formCodec struct {
	dec *schema.Decoder
}

func newFormCodec() formCodec {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.SetAliasTag("form")
	return formCodec{dec: dec}
}

func (formCodec) ContentType() string { return "application/x-www-form-urlencoded" }

func (c formCodec) Decode(r io.Reader, v any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return err
	}
	return c.dec.Decode(v, values)
}

// codecRegistry holds every encoder and decoder the router knows about.
// JSON sits at index 0 and acts as the default on both sides.
type codecRegistry struct {
	encoders []Encoder
	decoders []Decoder
}

// newCodecRegistry orders the built-in codecs (JSON, XML, and the form
// decoder) ahead of any user-registered ones.
func newCodecRegistry(jsonOpts JSONOptions, userEncoders []Encoder, userDecoders []Decoder) *codecRegistry {
	jc := jsonCodec{opts: jsonOpts}
	return &codecRegistry{
		encoders: append([]Encoder{jc, xmlCodec{}}, userEncoders...),
		decoders: append([]Decoder{jc, xmlCodec{}, newFormCodec()}, userDecoders...),
	}
}

// encoderFor returns the encoder registered for the exact media type,
// or nil when none matches.
func (cr *codecRegistry) encoderFor(mediaType string) Encoder {
	for _, enc := range cr.encoders {
		if enc.ContentType() == mediaType {
			return enc
		}
	}
	return nil
}

// negotiate picks an encoder from the Accept header, honoring q-values.
// Empty and */* accepts resolve to JSON; an explicit Accept with no
// registered match reports false.
func (cr *codecRegistry) negotiate(accept string) (Encoder, bool) {
	if accept == "" {
		return cr.encoders[0], true
	}

	var best Encoder
	bestQ := -1.0

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := acceptQuality(params)
		if q <= bestQ {
			continue
		}

		var enc Encoder
		if mediaType == "*/*" {
			enc = cr.encoders[0]
		} else {
			enc = cr.encoderFor(mediaType)
		}
		if enc != nil {
			best, bestQ = enc, q
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// acceptQuality reads the q parameter of an Accept media range,
// defaulting to 1 when absent or malformed.
func acceptQuality(params map[string]string) float64 {
	qs, ok := params["q"]
	if !ok {
		return 1
	}
	q, err := strconv.ParseFloat(qs, 64)
	if err != nil {
		return 1
	}
	return q
}

// decoderFor returns the decoder matching the Content-Type header.
// Empty content types resolve to JSON; unrecognized ones report false.
func (cr *codecRegistry) decoderFor(contentType string) (Decoder, bool) {
	if contentType == "" {
		return cr.decoders[0], true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	for _, dec := range cr.decoders {
		if dec.ContentType() == mediaType {
			return dec, true
		}
	}
	return nil, false
}

// contentTypes lists every encoder's media type. The OpenAPI builder
// expands the "negotiated at request time" placeholder with it.
func (cr *codecRegistry) contentTypes() []string {
	cts := make([]string, len(cr.encoders))
	for i, enc := range cr.encoders {
		cts[i] = enc.ContentType()
	}
	return cts
}
