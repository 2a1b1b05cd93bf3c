package user

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/badoux/checkmail"
)

const (
	maxNameLength     = 150
	maxEmailLength    = 150
	minPasswordLength = 8
	maxPasswordLength = 16
	minimumAge        = 18
	minBirthYear      = 1900
)

var birthdateLayouts = []string{"2006-01-02", "2006/01/02"}

// ValidationError lists every field problem found in a request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationError) err() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

func validateName(name string, v *ValidationError) {
	name = strings.TrimSpace(name)
	if name == "" {
		v.add("name is required")
	} else if len([]rune(name)) > maxNameLength {
		v.add(fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
}

func validateEmailAddress(email string, v *ValidationError) {
	if len(email) > maxEmailLength {
		v.add(fmt.Sprintf("email must be at most %d characters", maxEmailLength))
		return
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		v.add("email address is not valid")
	}
}

func validatePassword(password string, v *ValidationError) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		v.add(fmt.Sprintf("password must have between %d and %d characters", minPasswordLength, maxPasswordLength))
		return
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		v.add("password must contain an uppercase letter, a lowercase letter, a digit and a special character")
	}
}

func parseBirthdate(raw string, now time.Time, v *ValidationError) time.Time {
	raw = strings.TrimSpace(raw)
	var birthdate time.Time
	var err error
	for _, layout := range birthdateLayouts {
		birthdate, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		v.add("birthdate must be in yyyy-mm-dd or yyyy/mm/dd format")
		return time.Time{}
	}
	if birthdate.Year() <= minBirthYear {
		v.add(fmt.Sprintf("birthdate year must be after %d", minBirthYear))
		return time.Time{}
	}
	if birthdate.AddDate(minimumAge, 0, 0).After(now) {
		v.add(fmt.Sprintf("user must be at least %d years old", minimumAge))
		return time.Time{}
	}
	return birthdate
}

// NormalizeCPF strips the usual punctuation from a CPF.
func NormalizeCPF(cpf string) string {
	return strings.NewReplacer(".", "", "-", "", " ", "").Replace(cpf)
}

// ValidCPF checks length and both check digits of a normalized CPF.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	digits := make([]int, 11)
	repeated := true
	for i, r := range cpf {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			repeated = false
		}
	}
	if repeated {
		return false
	}
	return cpfCheckDigit(digits[:9]) == digits[9] && cpfCheckDigit(digits[:10]) == digits[10]
}

func cpfCheckDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
