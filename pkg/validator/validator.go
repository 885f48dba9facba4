package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gabinete-digital/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	register(v)
	return v
}

// Init registra as regras do domínio também no validador usado pelo gin
// (tags `binding`).
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		register(v)
	}
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("demand_type", func(fl validator.FieldLevel) bool {
		return models.DemandType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("demand_status", func(fl validator.FieldLevel) bool {
		return models.DemandStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("news_status", func(fl validator.FieldLevel) bool {
		return models.NewsStatus(fl.Field().String()).IsValid()
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Validate aplica as tags `validate` da struct.
func Validate(s any) error {
	return validate.Struct(s)
}

// Describe resume os erros de validação em uma mensagem por campo.
func Describe(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "url":
		return "URL inválida"
	case "max":
		return fmt.Sprintf("máximo de %s caracteres", fe.Param())
	case "min":
		return fmt.Sprintf("mínimo de %s caracteres", fe.Param())
	case "latitude", "longitude":
		return "coordenada inválida"
	case "demand_type":
		return "tipo de demanda desconhecido"
	case "demand_status", "news_status":
		return "status desconhecido"
	}
	return "valor inválido"
}
