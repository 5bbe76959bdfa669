package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const resetTokenBytes = 32

// ResetToken is a freshly generated password-reset secret. Plaintext goes to the
// user and is never stored; Hash and ExpiresAt are persisted on the user row.
type ResetToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

func GenerateResetToken(ttl time.Duration) (*ResetToken, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	plaintext := hex.EncodeToString(buf)

	return &ResetToken{
		Plaintext: plaintext,
		Hash:      HashResetToken(plaintext),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashResetToken is an unkeyed SHA-256 digest so the stored value can be looked up directly.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ResetTokenMatches reports whether plaintext hashes to storedHash and has not expired at now.
func ResetTokenMatches(plaintext, storedHash string, expiresAt, now time.Time) bool {
	if storedHash == "" || !expiresAt.After(now) {
		return false
	}
	computed := HashResetToken(plaintext)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
