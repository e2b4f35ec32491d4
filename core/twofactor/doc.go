// Package twofactor implements TOTP-based two-factor authentication with
// single-use recovery codes on top of a pluggable Store.
//
// # Lifecycle
//
// A record exists for an owner if and only if two-factor authentication is
// enabled. It is created by a confirmed setup, shrinks as recovery codes are
// consumed, is replaced by a new setup or RegenerateRecoveryCodes, and is
// removed by Disable.
//
//	svc, err := twofactor.NewService(store,
//		twofactor.WithIssuer("MyShop"),
//		twofactor.WithLogger(log),
//	)
//
//	// 1. Generate (nothing is stored yet)
//	setup, err := svc.GenerateSetup("alice@example.com")
//	qr, err := setup.QRCode(256)
//	// show qr, setup.Secret and setup.RecoveryCodes to the user
//
//	// 2. Confirm with the first code from the authenticator app
//	res, err := svc.ConfirmSetup(ctx, userID, setup, code)
//	if res.Verified() {
//		// enabled
//	}
//
// # Login
//
// After the primary credentials are checked, each submitted factor is one
// verification attempt that ends in StateVerified or StateRejected:
//
//	res, err := svc.Verify(ctx, userID, twofactor.TOTPAttempt{Code: input})
//	// or
//	res, err := svc.Verify(ctx, userID, twofactor.BackupAttempt{Code: input})
//
//	switch {
//	case errors.Is(err, twofactor.ErrNotFound):
//		// two-factor not enabled, skip the step
//	case errors.Is(err, twofactor.ErrConfiguration):
//		// stored secret is unusable, ask the user to set up again
//	case err != nil:
//		// storage failure
//	case res.Verified():
//		// complete the session
//	default:
//		// show res.Reason and let the user try again
//	}
//
// TOTP codes are accepted for the current 30-second window and one window on
// either side. Recovery codes are matched case-insensitively with formatting
// characters ignored, and an accepted code is removed through the store's
// atomic RemoveRecoveryCode. When two requests race on the same code, the
// loser is rejected with ReasonInvalidBackupCode.
//
// The service does not rate-limit attempts.
//
// # Storage
//
// MemoryStore serves tests and single-process deployments. Redis and
// PostgreSQL implementations live under integration/twofactor.
//
// With WithEncryptionKey, secrets are stored AES-256-GCM encrypted and recovery
// codes as HMAC-SHA256 hashes, both under keys derived per owner with HKDF.
// Without it, secrets are stored as-is and codes as plain SHA-256 hashes.
package twofactor
