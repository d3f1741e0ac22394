package password

import (
	"strings"
	"unicode"
)

// Policy rule names reported by WeakPasswordError.
const (
	RuleMinLength = "min_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSpecial   = "special"
)

// WeakPasswordError lists every policy rule the candidate password failed.
type WeakPasswordError struct {
	Missing []string
}

func (e *WeakPasswordError) Error() string {
	return "password policy violation: " + strings.Join(e.Missing, ", ")
}

// CheckPolicy validates a candidate password against the acceptance policy:
// at least 8 characters, with at least one uppercase letter, one lowercase
// letter, one digit, and one special character. It returns a
// *WeakPasswordError naming every unmet rule, or nil when the password is
// acceptable.
func CheckPolicy(candidate string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var missing []string
	if len(candidate) < 8 {
		missing = append(missing, RuleMinLength)
	}
	if !hasUpper {
		missing = append(missing, RuleUppercase)
	}
	if !hasLower {
		missing = append(missing, RuleLowercase)
	}
	if !hasDigit {
		missing = append(missing, RuleDigit)
	}
	if !hasSpecial {
		missing = append(missing, RuleSpecial)
	}

	if len(missing) > 0 {
		return &WeakPasswordError{Missing: missing}
	}
	return nil
}
