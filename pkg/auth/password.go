package auth

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// The message advertises 16 as a maximum; only the minimum is enforced.
	minPasswordLength = 8

	passwordDigits       = "0123456789"
	passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

var (
	ErrPasswordMismatch       = errors.New("Password confirmation doesn't match.")
	ErrPasswordLength         = errors.New("Password must have 8-16 characters.")
	ErrPasswordMissingDigit   = errors.New("Password must have 1 number.")
	ErrPasswordMissingSpecial = errors.New("Password must have 1 special character.")
)

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword validates a password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateResetPassword applies the reset policy in order: confirmation,
// minimum length, one digit, one special character.
func ValidateResetPassword(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordLength
	}
	if !strings.ContainsAny(password, passwordDigits) {
		return ErrPasswordMissingDigit
	}
	if !strings.ContainsAny(password, passwordSpecialChars) {
		return ErrPasswordMissingSpecial
	}
	return nil
}
