package whatsapp

import (
	"strings"

	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

const defaultCallingCode = "51"

// NormalizeBusinessPhone turns the stored store phone into the digits-only
// destination a deep link needs. A bare 9-digit local number gets the country
// calling code prepended; anything shorter after stripping is a configuration
// problem that must block checkout instead of producing a broken link.
func NormalizeBusinessPhone(raw, callingCode string) (string, error) {
	if callingCode == "" {
		callingCode = defaultCallingCode
	}
	digits := stripNonDigits(raw)
	if len(digits) == 9 {
		digits = callingCode + digits
	}
	if len(digits) < 9 {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "el teléfono de la tienda no está configurado")
	}
	return digits, nil
}

func stripNonDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
