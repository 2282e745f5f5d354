// Package validation holds string and URL checks used by the client and
// exported for callers that build queries from user input.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	serrors "serper-client/pkg/errors"
)

// ValidateURL requires an absolute URL with a scheme.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return serrors.NewValidationError("URL cannot be empty")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" {
		return serrors.NewValidationError(fmt.Sprintf("Invalid URL: %s", raw))
	}
	return nil
}

func ValidateHTTPS(raw string) error {
	if err := ValidateURL(raw); err != nil {
		return err
	}
	if !strings.HasPrefix(raw, "https://") {
		return serrors.NewValidationError("URL must use HTTPS")
	}
	return nil
}

// ExtractDomain returns the host of raw without the port.
func ExtractDomain(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", serrors.NewValidationError(fmt.Sprintf("Invalid URL: %s", raw))
	}
	host := u.Hostname()
	if host == "" {
		return "", serrors.NewValidationError("URL has no domain")
	}
	return host, nil
}

func ValidateNonEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return serrors.NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateLength checks the byte length of value. A negative bound is
// not enforced.
func ValidateLength(value string, minLen, maxLen int, fieldName string) error {
	n := len(value)
	if minLen >= 0 && n < minLen {
		return serrors.NewValidationError(fmt.Sprintf("%s must be at least %d characters", fieldName, minLen))
	}
	if maxLen >= 0 && n > maxLen {
		return serrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", fieldName, maxLen))
	}
	return nil
}

// Sanitize drops control characters other than whitespace.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// Truncate shortens value to at most maxLen runes, ending in "...".
func Truncate(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
