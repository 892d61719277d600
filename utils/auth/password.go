package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// passwordHashCost is the bcrypt work factor for stored credentials
	passwordHashCost = 12
	// MinPasswordLength is enforced at hash time so no caller can persist
	// a weaker credential
	MinPasswordLength = 8
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

// HashPassword validates the password length and returns its bcrypt hash
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a stored hash against a login attempt. A mismatch
// returns ErrPasswordMismatch; any other error means the hash is unreadable.
func VerifyPassword(storedHash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
