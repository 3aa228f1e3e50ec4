// Package phone normaliza números telefónicos del mercado local (Indonesia).
// Los formularios aceptan solo el número nacional significativo y el backend
// recibe siempre la forma internacional +62########.
package phone

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// CountryCode prefijo internacional del mercado local.
const CountryCode = "+62"

// nationalRe número nacional: empieza con 8 y tiene entre 8 y 12 dígitos.
var nationalRe = regexp.MustCompile(`^8\d{7,11}$`)

// ValidNational informa si national es un número nacional válido (sin prefijo).
func ValidNational(national string) bool {
	return nationalRe.MatchString(national)
}

// Normalize convierte la entrada del formulario a la forma internacional.
// Tolera separadores, un 0 troncal y prefijos +62/62 pegados por el usuario.
func Normalize(input string) (string, error) {
	digits := extractDigits(input)
	switch {
	case strings.HasPrefix(digits, "62") && ValidNational(digits[2:]):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if !ValidNational(digits) {
		return "", fmt.Errorf("phone: %q no es un número válido: debe iniciar con 8 y tener entre 8 y 12 dígitos", input)
	}
	return CountryCode + digits, nil
}

// National quita el prefijo internacional para mostrar el número en el formulario.
// Si no tiene el prefijo lo devuelve sin cambios.
func National(international string) string {
	return strings.TrimPrefix(strings.TrimSpace(international), CountryCode)
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
