package mediate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/mediate"
)

func TestStructValidator(t *testing.T) {
	t.Parallel()

	type signupReq struct {
		Body struct {
			Email string `json:"email" validate:"required,email"`
			Age   int    `json:"age"   validate:"gte=18"`
		}
	}

	r := mediate.New(mediate.WithValidator(mediate.StructValidator()))
	mediate.Post(r, "/signup", func(_ context.Context, _ *signupReq) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"a@b.co","age":30}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"nope","age":3}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

		var pd mediate.ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
		assert.Equal(t, "Validation Failed", pd.Title)
		require.Len(t, pd.Errors, 2)

		fields := []string{pd.Errors[0].Field, pd.Errors[1].Field}
		assert.Contains(t, fields, "Email")
		assert.Contains(t, fields, "Age")
	})
}

func TestStructValidator_non_struct(t *testing.T) {
	t.Parallel()

	v := mediate.StructValidator()
	assert.NoError(t, v.Validate("not a struct"))
	assert.NoError(t, v.Validate(nil))
}

func TestStructValidator_error_message_includes_param(t *testing.T) {
	t.Parallel()

	type limits struct {
		Count int `validate:"lte=5"`
	}

	v := mediate.StructValidator()
	err := v.Validate(&limits{Count: 10})
	require.Error(t, err)

	var pd *mediate.ProblemDetail
	require.ErrorAs(t, err, &pd)
	require.Len(t, pd.Errors, 1)
	assert.Equal(t, "lte=5", pd.Errors[0].Message)
}
