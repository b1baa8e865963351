package user

import (
	"golang.org/x/crypto/bcrypt"

	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/types"
)

// User is an account that owns invoices. PasswordHash is a bcrypt hash and
// must never be serialized into API responses; registration and login flows
// live in the identity service, this model only stores what they produce.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	types.BaseModel
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return ierr.NewError("password is required").
			WithHint("Password must not be empty").
			Mark(ierr.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
