package mediate_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/mediate"
)

func TestHasParamTags(t *testing.T) {
	t.Parallel()

	type withQuery struct {
		Q string `query:"q"`
	}
	type withCookie struct {
		S string `cookie:"session"`
	}
	type plain struct {
		Name string `json:"name"`
	}

	assert.True(t, mediate.HasParamTags(reflect.TypeFor[withQuery]()))
	assert.True(t, mediate.HasParamTags(reflect.TypeFor[*withQuery]()))
	assert.True(t, mediate.HasParamTags(reflect.TypeFor[withCookie]()))
	assert.False(t, mediate.HasParamTags(reflect.TypeFor[plain]()))
	assert.False(t, mediate.HasParamTags(reflect.TypeFor[string]()))
}

func TestHasBodyField(t *testing.T) {
	t.Parallel()

	type withBody struct {
		Body struct{ Name string }
	}
	type without struct {
		Name string
	}

	assert.True(t, mediate.HasBodyField(reflect.TypeFor[withBody]()))
	assert.True(t, mediate.HasBodyField(reflect.TypeFor[*withBody]()))
	assert.False(t, mediate.HasBodyField(reflect.TypeFor[without]()))
	assert.False(t, mediate.HasBodyField(reflect.TypeFor[int]()))
}

func TestHasRawRequest(t *testing.T) {
	t.Parallel()

	type withRaw struct {
		mediate.RawRequest
	}
	type without struct {
		Name string
	}

	assert.True(t, mediate.HasRawRequest(reflect.TypeFor[withRaw]()))
	assert.False(t, mediate.HasRawRequest(reflect.TypeFor[without]()))
}

func TestGenerateOperationID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method  string
		pattern string
		want    string
	}{
		{"GET", "/orders/{id}", "get-orders-id"},
		{"POST", "/orders", "post-orders"},
		{"DELETE", "/v1/users/{uid}/keys/{kid}", "delete-v1-users-uid-keys-kid"},
		{"GET", "/", "get"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mediate.GenerateOperationID(tt.method, tt.pattern))
		})
	}
}
