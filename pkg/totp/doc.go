// Package totp provides RFC 6238 Time-based One-Time Password (TOTP) primitives
// with AES-256-GCM secret encryption and single-use recovery codes.
//
// Everything in this package is stateless and safe for concurrent use.
// Persistence and the login flow live in core/twofactor.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/twofactor/pkg/totp"
//
//	// Generate a new 160-bit secret (unpadded base32)
//	secret, err := totp.GenerateSecretKey()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Create the provisioning URI for QR codes
//	uri, err := totp.GetTOTPURI(totp.Params{
//		Secret:      secret,
//		AccountName: "user@example.com",
//		Issuer:      "MyShop",
//	})
//
//	// Validate a user-provided code
//	valid, err := totp.ValidateTOTP(secret, "123456")
//	if errors.Is(err, totp.ErrInvalidSecret) {
//		// stored secret is corrupt: send the user back to setup
//	}
//
// Codes are six digits over 30-second windows using HMAC-SHA1. Validation
// accepts the current window and one window on either side. Input that is not
// exactly six ASCII digits is rejected without touching the secret.
//
// # Time-based Testing
//
//	testTime := time.Unix(1609459200, 0) // 2021-01-01 00:00:00 UTC
//	code, _ := totp.GenerateTOTPWithTime(secret, testTime)
//	ok, _ := totp.ValidateTOTPWithTime(secret, code, testTime.Add(29*time.Second))
//
// # Recovery Codes
//
//	codes, err := totp.GenerateUniqueRecoveryCodes(8, nil)
//
//	// Store only hashes
//	hashes := make([]string, len(codes))
//	for i, c := range codes {
//		hashes[i] = totp.HashRecoveryCode(c)
//	}
//
//	// Input is normalized: "AB12-CD34" matches "ab12cd34"
//	if totp.VerifyRecoveryCode(userInput, hashes[0]) {
//		// remove the used hash from storage
//	}
//
// # Secret Encryption
//
//	key, err := totp.GetEncryptionKey(totp.Config{EncryptionKey: os.Getenv("TOTP_ENCRYPTION_KEY")})
//	encrypted, err := totp.EncryptSecret(secret, key)
//	decrypted, err := totp.DecryptSecret(encrypted, key)
//
// New keys can be produced with GenerateEncodedEncryptionKey.
package totp
