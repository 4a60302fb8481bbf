package parse

import (
	"errors"
	"strings"
	"unicode"
)

// MinPhoneDigits is the shortest accepted tenant phone number.
const MinPhoneDigits = 10

var ErrPhoneTooShort = errors.New("phone number must be at least 10 digits")

// Phone keeps only the digits of raw. Blank input is allowed and yields "".
func Phone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < MinPhoneDigits {
		return "", ErrPhoneTooShort
	}
	return digits, nil
}
