package service

import (
	"strings"

	"digilib/internal/errors"
)

// NormalizeISBN strips hyphens and spaces from an ISBN and validates that
// the remainder is exactly 10 or 13 digits. The normalized form is what the
// catalog stores and what uniqueness is checked against.
func NormalizeISBN(raw string) (string, error) {
	isbn := strings.ReplaceAll(strings.ReplaceAll(raw, "-", ""), " ", "")

	if len(isbn) != 10 && len(isbn) != 13 {
		return "", errors.ErrInvalidISBN
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return "", errors.ErrInvalidISBN
		}
	}
	return isbn, nil
}
