// Package auth provides password hashing and cookie-session management.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Interactive-login cost per the x/crypto docs.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives an scrypt key from password with a fresh random
// salt and returns it as "hex(key).hex(salt)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the key from password and the salt stored in
// encoded and compares in constant time. A malformed stored value (missing
// separator, bad hex) is treated as no-match, never an error: a corrupted
// hash must fail login rather than crash it.
func VerifyPassword(password, encoded string) bool {
	keyHex, saltHex, ok := strings.Cut(encoded, ".")
	if !ok {
		return false
	}
	storedKey, err := hex.DecodeString(keyHex)
	if err != nil || len(storedKey) == 0 {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(storedKey))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, storedKey) == 1
}
