package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var legacyHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// IsLegacyHash reports whether stored is an unsalted SHA-256 hex digest written by older
// desktop versions.
func IsLegacyHash(stored string) bool {
	return legacyHashPattern.MatchString(stored)
}

// CheckPassword compares a password with a stored bcrypt or legacy SHA-256 hash.
func CheckPassword(stored, password string) bool {
	if IsLegacyHash(stored) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(stored)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
