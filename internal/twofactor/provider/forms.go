package provider

import (
	"fmt"
	"regexp"
	"strings"
)

// Submitted form fields are matched against fixed patterns. Parsing fails on
// the first invalid field with an error naming it.
var (
	apiKeyPattern      = regexp.MustCompile(`^\S+$`)
	emailPattern       = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
	countryCodePattern = regexp.MustCompile(`^[0-9]{1,3}$`)
	phonePattern       = regexp.MustCompile(`^[0-9\- ]+$`)
)

func parseAPIKeyField(value string) (string, error) {
	if !apiKeyPattern.MatchString(value) {
		return "", fmt.Errorf("API key must be a single non-empty token without whitespace")
	}
	return value, nil
}

func parseEmailField(value string) (string, error) {
	if !emailPattern.MatchString(value) {
		return "", fmt.Errorf("email %q is not a valid address", value)
	}
	return value, nil
}

// parseCountryCodeField strips one leading + before matching, so "+61" and
// "61" are equivalent.
func parseCountryCodeField(value string) (string, error) {
	code := strings.TrimPrefix(value, "+")
	if !countryCodePattern.MatchString(code) {
		return "", fmt.Errorf("country code %q must be 1-3 digits", value)
	}
	return code, nil
}

func parsePhoneField(value string) (string, error) {
	if !phonePattern.MatchString(value) {
		return "", fmt.Errorf("phone number %q may contain only digits, dashes and spaces", value)
	}
	return value, nil
}
