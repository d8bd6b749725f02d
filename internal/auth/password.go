// Package auth holds password hashing helpers for local credential checks.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"

	"yatube/internal/model"
)

const saltSize = 32

func randSalt(size int) string {
	buf := make([]byte, size)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func hashPassword(plain, salt string) string {
	sum := sha512.Sum512([]byte(plain + salt))
	return hex.EncodeToString(sum[:])
}

// SetPassword assigns a fresh salt and the salted hash of plain to the user.
func SetPassword(u *model.User, plain string) {
	u.PassSalt = randSalt(saltSize)
	u.PasswordHash = hashPassword(plain, u.PassSalt)
}

// CheckPassword reports whether plain matches the user's stored credentials.
func CheckPassword(u *model.User, plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return u.PasswordHash == hashPassword(plain, u.PassSalt)
}
