package mediate

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// SelfValidator is implemented by request types that validate themselves.
type SelfValidator interface {
	Validate() error
}

// Validator validates any request.
type Validator interface {
	Validate(req any) error
}

// StructValidator returns a Validator backed by go-playground/validator
// struct tags (`validate:"required"` and friends). Failures surface as a
// 422 ProblemDetail listing each failed field.
func StructValidator() Validator {
	return &structValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

type structValidator struct {
	v *validator.Validate
}

func (s *structValidator) Validate(req any) error {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	err := s.v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Error(http.StatusBadRequest, err.Error())
	}

	pd := &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusUnprocessableEntity,
	}
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		pd.Errors = append(pd.Errors, ValidationError{
			Field:   fe.Field(),
			Message: msg,
			Value:   fe.Value(),
		})
	}
	return pd
}
