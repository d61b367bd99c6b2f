package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/talentra/internal/apperrors"
	"github.com/justsurfingit/talentra/internal/middleware"
)

var registerOnce sync.Once

// RegisterValidatorTagNames makes validation errors report json/form field
// names instead of Go struct field names.
func RegisterValidatorTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindError converts a gin binding failure into a VALIDATION_ERROR with
// per-field details.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			details[fieldPath(fe)] = describe(fe)
		}
		return apperrors.Validation("Invalid input", details)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.Validation("Request body is required", nil)
	case errors.As(err, &syntaxErr):
		return apperrors.Validation("Invalid JSON format", nil)
	case errors.As(err, &typeErr):
		return apperrors.Validation("Invalid input", map[string]any{typeErr.Field: "must be a " + typeErr.Type.String()})
	}
	return apperrors.Validation("Invalid input: "+err.Error(), nil)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}
