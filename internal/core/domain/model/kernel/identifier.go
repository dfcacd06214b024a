package kernel

import (
	"strings"
	"unicode/utf8"

	"parcel-dispatch/internal/pkg/errs"
)

// MaxIdentifierLength bounds parcel and vehicle identifiers. It matches the
// width of the identifier columns in the relational stores.
const MaxIdentifierLength = 128

// parseIdentifier trims s and checks it is a usable identifier.
func parseIdentifier(paramName, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.NewValueIsRequiredError(paramName)
	}
	if n := utf8.RuneCountInString(s); n > MaxIdentifierLength {
		return "", errs.NewValueIsOutOfRangeError(paramName+" length", n, 1, MaxIdentifierLength)
	}
	if strings.ContainsAny(s, "\r\n\t") {
		return "", errs.NewValueIsInvalidError(paramName)
	}
	return s, nil
}
