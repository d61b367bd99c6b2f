package services

import (
	"strings"

	"github.com/justsurfingit/talentra/internal/apperrors"
)

// trimRequired trims each field in place and rejects the ones left empty.
// Binding checks run on the raw input, so whitespace-only values get past
// them.
func trimRequired(fields map[string]*string) error {
	var blank map[string]any
	for name, v := range fields {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			if blank == nil {
				blank = map[string]any{}
			}
			blank[name] = "required"
		}
	}
	if blank != nil {
		return apperrors.Validation("Required fields are blank", blank)
	}
	return nil
}
