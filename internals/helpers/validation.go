// file: internals/helpers/validation.go
package helper

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// Nama field di pesan error mengikuti json tag, bukan nama struct Go,
// supaya klien bisa memetakan langsung ke field form.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func Validate(s any) error {
	return validate.Struct(s)
}

// ValidationErrorsToMap mengumpulkan SEMUA field bermasalah sekaligus
// (bukan fail-fast), biar satu response cukup untuk perbaiki semua input.
func ValidationErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		msg := messageForTag(fe)
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "min":
		return "minimal " + fe.Param()
	case "max":
		return "maksimal " + fe.Param()
	case "email":
		return "format email tidak valid"
	case "datetime":
		return "format waktu harus " + fe.Param()
	case "uuid4", "uuid":
		return "harus berupa UUID"
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "gt":
		return "harus lebih dari " + fe.Param()
	default:
		return "format tidak valid"
	}
}
