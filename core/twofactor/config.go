package twofactor

// Config is loaded from the environment with core/config.
type Config struct {
	Issuer        string `env:"TWOFACTOR_ISSUER" envDefault:"Foundation"`
	RecoveryCodes int    `env:"TWOFACTOR_RECOVERY_CODES" envDefault:"8"`
	// EncryptionKey is a base64 32-byte key. Empty disables secret encryption.
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"`
}
