package twofactor

import (
	"context"
	"time"
)

// Store persists two-factor records.
//
// RemoveRecoveryCode must be atomic: when several callers remove the same code
// concurrently, exactly one of them observes true. ReplaceRecoveryCodes must
// never recreate a deleted record.
type Store interface {
	// Load returns ErrNotFound when the owner has no record.
	Load(ctx context.Context, ownerID string) (*Record, error)
	// Save creates or fully replaces the owner's record.
	Save(ctx context.Context, rec *Record) error
	// Delete removes the owner's record. Deleting a missing record is not an error.
	Delete(ctx context.Context, ownerID string) error
	// RemoveRecoveryCode removes codeHash and reports whether it was present.
	RemoveRecoveryCode(ctx context.Context, ownerID, codeHash string) (bool, error)
	// ReplaceRecoveryCodes atomically swaps the owner's code set for codeHashes,
	// leaving the secret and CreatedAt untouched. It reports false without
	// writing anything when the owner has no record.
	ReplaceRecoveryCodes(ctx context.Context, ownerID string, codeHashes []string) (bool, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
