package utils

import "golang.org/x/crypto/bcrypt"

// passwordCost stays at the library default; raise it only together with a
// rehash-on-login migration for existing accounts.
const passwordCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash for storage.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether plaintext matches the stored hash.
func CheckPasswordHash(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
