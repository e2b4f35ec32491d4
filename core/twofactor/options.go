package twofactor

import (
	"log/slog"
	"time"
)

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the issuer shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithClock injects the time source used for code verification.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithNow is a shorthand for WithClock(ClockFunc(now)).
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = ClockFunc(now)
		}
	}
}

// WithLogger sets the logger for verification and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEncryptionKey enables AES-256-GCM encryption of stored secrets and keyed
// hashing of recovery codes. The key must be 32 bytes; NewService rejects others.
// Changing the key makes existing records unreadable.
func WithEncryptionKey(key []byte) Option {
	return func(s *Service) {
		s.masterKey = append([]byte(nil), key...)
	}
}

// WithRecoveryCodeCount sets how many recovery codes a setup issues.
func WithRecoveryCodeCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeCount = n
		}
	}
}
