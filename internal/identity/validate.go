package identity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/secure/precis"
)

const maxNameLength = 64

// validateName accepts any printable UTF-8 name up to maxNameLength bytes,
// spaces and symbols included. Names are stored and compared exactly as
// given; the PRECIS freeform class additionally rules out unassigned code
// points.
func validateName(name string) error {
	if name == "" || len(name) > maxNameLength {
		return fmt.Errorf("%w: must be 1-%d bytes", ErrInvalidName, maxNameLength)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: invalid UTF-8", ErrInvalidName)
	}
	if strings.IndexFunc(name, invisible) >= 0 {
		return fmt.Errorf("%w: contains control or format characters", ErrInvalidName)
	}
	if _, err := precis.OpaqueString.String(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return nil
}

func invisible(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidPassword)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidPassword, maxPasswordBytes)
	}
	return nil
}
