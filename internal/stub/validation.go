package stub

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validation errors report "preco" rather than "Preco".
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingErrors converts a bind failure into the {field: message} body ServeRest
// answers with on 400.
func bindingErrors(err error) map[string]string {
	out := map[string]string{}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		out[typeErr.Field] = typeErr.Field + " deve ser um " + typeName(typeErr.Type)
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out["message"] = "corpo da requisição inválido"
		return out
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = field + " é obrigatório"
		case "email":
			out[field] = field + " deve ser um email válido"
		case "gt":
			out[field] = field + " deve ser um número positivo"
		case "gte":
			out[field] = field + " deve ser maior ou igual a 0"
		case "oneof":
			out[field] = field + " deve ser 'true' ou 'false'"
		default:
			out[field] = field + " inválido"
		}
	}
	return out
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "valor válido"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "número"
	case reflect.String:
		return "string"
	default:
		return t.String()
	}
}
