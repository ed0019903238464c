package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Report 'json' tag names in validation errors instead of struct field names
func configureValidator(validate *validator.Validate) {
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}
