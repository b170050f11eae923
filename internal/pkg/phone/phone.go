// Package phone normalizes guardian phone numbers into the dialable form
// expected by the messaging gateway.
package phone

import (
	"regexp"
	"strings"
)

// CountryCode is the Indonesian calling code every normalized number starts with.
const CountryCode = "62"

var (
	nonDigit  = regexp.MustCompile(`[^0-9]`)
	validForm = regexp.MustCompile(`^62[0-9]{9,}$`)
)

// Normalize converts a raw phone number into a digit-only string starting with
// the country code. It never fails: garbage in produces a string that IsValid
// rejects. Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(raw string) string {
	p := nonDigit.ReplaceAllString(raw, "")

	// International "00" prefix goes first, otherwise "0062..." would be
	// treated as a trunk zero and become "62062...".
	p = strings.TrimPrefix(p, "00")

	if strings.HasPrefix(p, "0") {
		p = CountryCode + p[1:]
	}

	return strings.TrimLeft(p, "+")
}

// IsValid reports whether a normalized number is dialable: the country code
// followed by at least nine digits.
func IsValid(normalized string) bool {
	return validForm.MatchString(normalized)
}
