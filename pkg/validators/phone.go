package validators

import (
	"errors"
	"regexp"
)

var (
	ErrPhoneInvalid = errors.New("enter a valid phone number, it should be between 6 and 15 digits long")

	phonePattern = regexp.MustCompile(`^\+?\d{6,15}$`)
)

// PhoneValidator accepts an empty value, the field is optional.
func PhoneValidator(p string) error {
	if p == "" {
		return nil
	}

	if !phonePattern.MatchString(p) {
		return ErrPhoneInvalid
	}

	return nil
}
