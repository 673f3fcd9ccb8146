package service

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the signup and password-change rule surfaced to
// users ("Wachtwoord moet minimaal 6 karakters lang zijn").
const MinPasswordLength = 6

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword returns nil when the plaintext matches the bcrypt hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
