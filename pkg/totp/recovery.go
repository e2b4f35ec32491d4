package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// RecoveryCodeLength is the number of characters in a generated recovery code.
	RecoveryCodeLength = 8

	// DefaultRecoveryCodes is how many codes a setup issues.
	DefaultRecoveryCodes = 8

	recoveryAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var alphabetSize = big.NewInt(int64(len(recoveryAlphabet)))

// GenerateRecoveryCodes returns n independent random recovery codes.
// Codes are not checked against each other; use GenerateUniqueRecoveryCodes
// when the set must be free of duplicates.
func GenerateRecoveryCodes(n int) ([]string, error) {
	if n <= 0 {
		return nil, ErrInvalidCodeCount
	}
	codes := make([]string, n)
	for i := range codes {
		code, err := generateRecoveryCode()
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

// GenerateUniqueRecoveryCodes returns n distinct codes whose normalized form is
// not in exclude. Collisions are regenerated.
func GenerateUniqueRecoveryCodes(n int, exclude func(code string) bool) ([]string, error) {
	if n <= 0 {
		return nil, ErrInvalidCodeCount
	}
	seen := make(map[string]struct{}, n)
	codes := make([]string, 0, n)
	for len(codes) < n {
		code, err := generateRecoveryCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		if exclude != nil && exclude(code) {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

func generateRecoveryCode() (string, error) {
	var b strings.Builder
	b.Grow(RecoveryCodeLength)
	for range RecoveryCodeLength {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrFailedToGenerateRand, err)
		}
		b.WriteByte(recoveryAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeRecoveryCode lower-cases s and drops every character outside [a-z0-9],
// so "AB12-CD34" and "ab12cd34" compare equal.
func NormalizeRecoveryCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// VerifyBackupCode reports whether candidate matches one of the available
// plaintext codes after normalization. It does not consume anything.
func VerifyBackupCode(candidate string, available []string) bool {
	c := NormalizeRecoveryCode(candidate)
	if c == "" {
		return false
	}
	found := 0
	for _, code := range available {
		found |= subtle.ConstantTimeCompare([]byte(c), []byte(NormalizeRecoveryCode(code)))
	}
	return found == 1
}

// HashRecoveryCode returns the hex SHA-256 of the normalized code.
func HashRecoveryCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeRecoveryCode(code)))
	return hex.EncodeToString(sum[:])
}

// HashRecoveryCodeWithKey returns the hex HMAC-SHA256 of the normalized code.
// Keyed hashes keep a leaked code table from being brute-forced offline.
func HashRecoveryCodeWithKey(code string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(NormalizeRecoveryCode(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyRecoveryCode compares a user-supplied code with a stored HashRecoveryCode value.
func VerifyRecoveryCode(candidate, hash string) bool {
	if NormalizeRecoveryCode(candidate) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashRecoveryCode(candidate)), []byte(hash)) == 1
}
