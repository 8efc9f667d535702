package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadPassword is returned when the shared cart password does not match.
var ErrBadPassword = errors.New("invalid password")

// PasswordGate checks the single shared password that unlocks the app.
// A bcrypt hash takes precedence over a plain password when both are set.
type PasswordGate struct {
	plain string
	hash  []byte
}

// NewPasswordGate builds a gate from the configured password and hash.
func NewPasswordGate(plain, hash string) *PasswordGate {
	g := &PasswordGate{plain: plain}
	if hash != "" {
		g.hash = []byte(hash)
	}
	return g
}

// Check returns nil if candidate is the configured password.
func (g *PasswordGate) Check(candidate string) error {
	if candidate == "" {
		return ErrBadPassword
	}
	if g.hash != nil {
		if bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)) != nil {
			return ErrBadPassword
		}
		return nil
	}
	if g.plain == "" || subtle.ConstantTimeCompare([]byte(g.plain), []byte(candidate)) != 1 {
		return ErrBadPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for APP_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
