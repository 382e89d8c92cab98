package library

import "strings"

// NormalizeISBN strips surrounding whitespace, hyphens and inner spaces and
// requires the remainder to be a non-empty run of ASCII digits.
func NormalizeISBN(raw string) (string, error) {
	isbn := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))
	if isbn == "" {
		return "", ErrISBNRequired
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return "", ErrISBNInvalid
		}
	}
	return isbn, nil
}
