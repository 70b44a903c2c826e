package auth

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this length, so longer passwords are rejected.
const maxPasswordBytes = 72

var bcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", common.ErrorValidation, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

// DummyHash is a valid hash of a random-looking password. Comparing against
// it when a login email is unknown keeps both failure paths equally slow.
func DummyHash() string {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
		if err != nil {
			panic(err)
		}
		dummy = string(h)
	})
	return dummy
}
