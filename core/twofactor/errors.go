package twofactor

import "errors"

var (
	// ErrNotFound means two-factor authentication is not enabled for the owner.
	// Callers should skip the second-factor step rather than reject the login.
	ErrNotFound = errors.New("two-factor authentication is not enabled")

	// ErrConfiguration means the stored secret is missing, undecryptable or not
	// valid base32. Retrying the code cannot help; the owner has to run setup again.
	ErrConfiguration = errors.New("two-factor secret is corrupt or misconfigured")

	ErrInvalidOwner   = errors.New("owner identifier is required")
	ErrInvalidRequest = errors.New("verification request is required")
	ErrInvalidSetup   = errors.New("invalid two-factor setup")
	ErrNilStore       = errors.New("store is required")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
