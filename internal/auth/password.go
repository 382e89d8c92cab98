package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused
// rather than silently truncated.
const maxPasswordBytes = 72

// HashPassword salts and hashes a password. A zero cost means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	switch {
	case password == "":
		return "", ErrPasswordRequired
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports ErrInvalidCredentials when password does not match hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateSessionSecret creates a random 32-byte secret, hex encoded.
func GenerateSessionSecret() (string, error) {
	b, err := randomBytes(32)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GeneratePassword returns a random 20 character password for accounts
// created without one, such as the built-in administrator.
func GeneratePassword() (string, error) {
	b, err := randomBytes(15)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
