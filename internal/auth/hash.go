package auth

import "golang.org/x/crypto/bcrypt"

// Hasher abstracts the password hashing policy so stores do not hard-code it.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) ([]byte, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func (h BcryptHasher) Compare(hash []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
