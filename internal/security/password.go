// Package security provides password hashing and session token handling.
package security

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given cost, clamped to the range
// bcrypt accepts. A zero cost selects bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the bcrypt cost factor in use.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *PasswordHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
