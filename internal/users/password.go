package users

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/EmpoweredVote/bookshelf/internal/common"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashCost is the bcrypt work factor for new password hashes.
var HashCost = bcrypt.DefaultCost

// HashPassword returns common.ErrorValidation for passwords over MaxPasswordBytes.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("hash password: %w", common.ErrorValidation)
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
