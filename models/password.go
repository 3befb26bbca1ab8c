package models

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts credential hashing so entity construction does not
// depend on a concrete algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

// BcryptHasher hashes passwords with bcrypt at the default cost.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
