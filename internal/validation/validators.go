package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result is the outcome of validating a single value. Message is empty when
// Valid is true.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// OK is the passing result.
var OK = Result{Valid: true}

// Fail returns a failing result carrying message.
func Fail(message string) Result {
	return Result{Message: message}
}

// Values holds the current field values of a form, keyed by field name.
type Values map[string]string

// Rule validates one field value. values gives access to sibling fields for
// cross-field checks such as password confirmation.
type Rule func(value string, values Values) Result

var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// IsEmail reports whether value looks like local@domain.tld. Matching is
// case-insensitive.
func IsEmail(value string) bool {
	return emailPattern.MatchString(strings.ToLower(value))
}

// PasswordStrength scores a password from 0 to 4, one point each for a length
// of at least 8, an uppercase letter, a digit and a non-alphanumeric rune.
func PasswordStrength(password string) int {
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			symbol = true
		}
	}

	strength := 0
	for _, ok := range []bool{utf8.RuneCountInString(password) >= 8, upper, digit, symbol} {
		if ok {
			strength++
		}
	}
	return strength
}

// StrengthLabel names a PasswordStrength score for display.
func StrengthLabel(strength int) string {
	switch {
	case strength <= 1:
		return "Weak"
	case strength == 2:
		return "Fair"
	case strength == 3:
		return "Good"
	default:
		return "Strong"
	}
}

// Required fails with message when the value is empty or only whitespace.
func Required(message string) Rule {
	return func(value string, _ Values) Result {
		if isBlank(value) {
			return Fail(message)
		}
		return OK
	}
}

func isBlank(value string) bool {
	return strings.TrimFunc(value, unicode.IsSpace) == ""
}

// MinLength fails with message when the value is shorter than n characters.
func MinLength(n int, message string) Rule {
	return func(value string, _ Values) Result {
		if utf8.RuneCountInString(value) < n {
			return Fail(message)
		}
		return OK
	}
}

// EmailFormat fails with message when the value is not an email address.
func EmailFormat(message string) Rule {
	return func(value string, _ Values) Result {
		if !IsEmail(value) {
			return Fail(message)
		}
		return OK
	}
}

// Matches fails with message when the value differs from the named field.
func Matches(field, message string) Rule {
	return func(value string, values Values) Result {
		if value != values[field] {
			return Fail(message)
		}
		return OK
	}
}

// Chain runs rules in order and returns the first failure.
func Chain(rules ...Rule) Rule {
	return func(value string, values Values) Result {
		for _, rule := range rules {
			if r := rule(value, values); !r.Valid {
				return r
			}
		}
		return OK
	}
}

// Email validates a sign-up email value.
func Email(value string) Result {
	return Chain(
		Required("Email is required"),
		EmailFormat("Please enter a valid email"),
	)(value, nil)
}

// Password validates a sign-up password value.
func Password(value string) Result {
	return Chain(
		Required("Password is required"),
		MinLength(8, "Password must be at least 8 characters"),
	)(value, nil)
}
