package validators

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordNoLetter = errors.New("password must contain at least one letter")
	ErrPasswordNoDigit  = errors.New("password must contain at least one digit")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 255 {
		return ErrPasswordTooLong
	}

	if !strings.ContainsFunc(p, unicode.IsLetter) {
		return ErrPasswordNoLetter
	}

	if !strings.ContainsFunc(p, unicode.IsDigit) {
		return ErrPasswordNoDigit
	}

	return nil
}
