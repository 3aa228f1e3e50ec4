// Package validation envuelve go-playground/validator y traduce sus errores al
// mapa por campo de domain.ValidationError, usando los nombres JSON de los campos.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/pkg/phone"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator instancia compartida con los tags propios registrados.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = f.Tag.Get("query")
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		// idphone: número nacional (8 + 7..11 dígitos) o internacional +62.
		_ = v.RegisterValidation("idphone", func(fl validator.FieldLevel) bool {
			_, err := phone.Normalize(fl.Field().String())
			return err == nil
		})
		instance = v
	})
	return instance
}

// Struct valida s y devuelve *domain.ValidationError con un mensaje por campo, o nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath ruta del campo sin el nombre del struct raíz (p. ej. "pricing.base_price").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "url":
		return "debe ser una URL válida"
	case "hexcolor":
		return "debe ser un color #RRGGBB"
	case "idphone":
		return "debe iniciar con 8 y tener entre 8 y 12 dígitos"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elementos", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("no debe superar %s elementos", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "len":
		return fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de [%s]", fe.Param())
	case "number", "numeric":
		return "debe contener solo dígitos"
	case "datetime":
		return fmt.Sprintf("debe tener el formato %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	}
	return fmt.Sprintf("no cumple la regla %q", fe.Tag())
}

// Password aplica la política de contraseñas: al menos 8 caracteres con
// mayúscula, minúscula y dígito. Devuelve el mensaje del primer incumplimiento.
func Password(pw string) (string, bool) {
	if len(pw) < 8 {
		return "debe tener al menos 8 caracteres", false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		return "debe incluir una mayúscula", false
	case !lower:
		return "debe incluir una minúscula", false
	case !digit:
		return "debe incluir un dígito", false
	}
	return "", true
}

// Merge combina errores de validación; cualquier otro error se devuelve tal cual.
func Merge(dst *domain.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for k, v := range verr.Fields {
		dst.Add(k, v)
	}
	return nil
}
