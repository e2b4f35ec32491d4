package totp

import "errors"

var (
	ErrInvalidSecret         = errors.New("invalid TOTP secret")
	ErrMissingSecret         = errors.New("TOTP secret is required")
	ErrMissingAccountName    = errors.New("account name is required")
	ErrInvalidLabel          = errors.New("issuer and account name must not contain a colon")
	ErrInvalidCodeCount      = errors.New("recovery code count must be positive")
	ErrInvalidEncryptionKey  = errors.New("encryption key must be 32 bytes")
	ErrMissingEncryptionKey  = errors.New("encryption key is not configured")
	ErrInvalidCiphertext     = errors.New("invalid encrypted secret")
	ErrFailedToGenerateRand  = errors.New("failed to read random bytes")
	ErrFailedToGenerateCode  = errors.New("failed to generate TOTP code")
	ErrFailedToDecryptSecret = errors.New("failed to decrypt secret")
)
