package totp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// SecretSize is the raw key length in bytes (160 bits, the SHA1 block-friendly size).
	SecretSize = 20

	DefaultPeriod = 30
	DefaultDigits = otp.DigitsSix

	// DefaultSkew accepts the previous and the next window besides the current one.
	DefaultSkew = 1
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

var validateOpts = totp.ValidateOpts{
	Period:    DefaultPeriod,
	Skew:      DefaultSkew,
	Digits:    DefaultDigits,
	Algorithm: otp.AlgorithmSHA1,
}

// Params describes an otpauth:// provisioning URI.
// Zero Algorithm, Digits and Period mean SHA1, 6 and 30 seconds.
type Params struct {
	Secret      string
	AccountName string
	Issuer      string
	Algorithm   otp.Algorithm
	Digits      otp.Digits
	Period      uint
}

// GenerateSecretKey returns a new random 160-bit secret encoded as
// unpadded upper-case base32.
func GenerateSecretKey() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToGenerateRand, err)
	}
	return b32.EncodeToString(buf), nil
}

// ValidateSecret reports whether secret is usable as a TOTP key.
// The check accepts the same inputs the code generator accepts:
// surrounding whitespace, lower case and missing padding.
func ValidateSecret(secret string) error {
	_, err := decodeSecret(secret)
	return err
}

func decodeSecret(secret string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(secret))
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}
	key, err := b32.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	return key, nil
}

// GetTOTPURI builds the otpauth:// URI consumed by authenticator apps.
func GetTOTPURI(p Params) (string, error) {
	if strings.TrimSpace(p.Secret) == "" {
		return "", ErrMissingSecret
	}
	if strings.TrimSpace(p.AccountName) == "" {
		return "", ErrMissingAccountName
	}
	if strings.Contains(p.AccountName, ":") || strings.Contains(p.Issuer, ":") {
		return "", ErrInvalidLabel
	}
	if err := ValidateSecret(p.Secret); err != nil {
		return "", err
	}

	label := p.AccountName
	if p.Issuer != "" {
		label = p.Issuer + ":" + p.AccountName
	}

	q := url.Values{}
	q.Set("secret", strings.TrimRight(strings.ToUpper(strings.TrimSpace(p.Secret)), "="))
	if p.Issuer != "" {
		q.Set("issuer", p.Issuer)
	}
	if p.Algorithm != otp.AlgorithmSHA1 {
		q.Set("algorithm", p.Algorithm.String())
	}
	if p.Digits != 0 && p.Digits != DefaultDigits {
		q.Set("digits", p.Digits.String())
	}
	if p.Period != 0 && p.Period != DefaultPeriod {
		q.Set("period", strconv.FormatUint(uint64(p.Period), 10))
	}

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + label,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// GenerateTOTP returns the code for the current 30-second window.
func GenerateTOTP(secret string) (string, error) {
	return GenerateTOTPWithTime(secret, time.Now())
}

// GenerateTOTPWithTime returns the code for the window containing t.
func GenerateTOTPWithTime(secret string, t time.Time) (string, error) {
	if err := ValidateSecret(secret); err != nil {
		return "", err
	}
	code, err := totp.GenerateCodeCustom(secret, t.UTC(), validateOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToGenerateCode, err)
	}
	return code, nil
}

// ValidateTOTP checks code against secret at the current time.
func ValidateTOTP(secret, code string) (bool, error) {
	return ValidateTOTPWithTime(secret, code, time.Now())
}

// ValidateTOTPWithTime checks code against the windows C-1, C and C+1 around t.
//
// A code that is not exactly six ASCII digits is a plain mismatch and returns
// false with a nil error. A secret that cannot be decoded returns an error
// wrapping ErrInvalidSecret, so callers can tell a broken setup from a typo.
func ValidateTOTPWithTime(secret, code string, t time.Time) (bool, error) {
	if !IsWellFormedCode(code) {
		return false, nil
	}
	if err := ValidateSecret(secret); err != nil {
		return false, err
	}
	ok, err := totp.ValidateCustom(code, secret, t.UTC(), validateOpts)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	return ok, nil
}

// IsWellFormedCode reports whether code is exactly six ASCII digits.
func IsWellFormedCode(code string) bool {
	if len(code) != DefaultDigits.Length() {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
