package content

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form rules live in the models' `binding` tags so the same tags read naturally next to gin handlers.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// The admin forms submit "" for untouched optional inputs.
	must(v.RegisterValidation("optionalurl", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || v.Var(s, "url") == nil
	}))
	must(v.RegisterValidation("optionalemail", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || v.Var(s, "email") == nil
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
