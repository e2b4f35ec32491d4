package twofactor

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/dmitrymomot/twofactor/core/logger"
	"github.com/dmitrymomot/twofactor/pkg/totp"
)

const (
	defaultIssuer = "Foundation"

	secretKeyInfo   = "twofactor/secret/"
	recoveryKeyInfo = "twofactor/recovery/"
)

// Service runs setup, verification and recovery-code bookkeeping on top of a Store.
// It is safe for concurrent use.
type Service struct {
	store     Store
	issuer    string
	clock     Clock
	logger    *slog.Logger
	masterKey []byte
	codeCount int
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	s := &Service{
		store:     store,
		issuer:    defaultIssuer,
		clock:     systemClock{},
		logger:    logger.Nop(),
		codeCount: totp.DefaultRecoveryCodes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.masterKey != nil && len(s.masterKey) != 32 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, totp.ErrInvalidEncryptionKey)
	}
	if strings.Contains(s.issuer, ":") {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, totp.ErrInvalidLabel)
	}
	return s, nil
}

// NewServiceFromConfig creates a Service from environment configuration.
// Options are applied after cfg and take precedence.
func NewServiceFromConfig(store Store, cfg Config, opts ...Option) (*Service, error) {
	base := []Option{
		WithIssuer(cfg.Issuer),
		WithRecoveryCodeCount(cfg.RecoveryCodes),
	}
	if cfg.EncryptionKey != "" {
		key, err := totp.GetEncryptionKey(totp.Config{EncryptionKey: cfg.EncryptionKey})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		base = append(base, WithEncryptionKey(key))
	}
	return NewService(store, append(base, opts...)...)
}

// GenerateSetup creates a new secret, provisioning URI and recovery codes for
// ownerLabel. Nothing is persisted.
func (s *Service) GenerateSetup(ownerLabel string) (*Setup, error) {
	if strings.TrimSpace(ownerLabel) == "" {
		return nil, ErrInvalidOwner
	}
	if strings.Contains(ownerLabel, ":") {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOwner, totp.ErrInvalidLabel)
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}
	uri, err := totp.GetTOTPURI(totp.Params{
		Secret:      secret,
		AccountName: ownerLabel,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, err
	}
	codes, err := totp.GenerateUniqueRecoveryCodes(s.codeCount, nil)
	if err != nil {
		return nil, err
	}

	return &Setup{
		AccountName:     ownerLabel,
		Secret:          secret,
		ProvisioningURI: uri,
		RecoveryCodes:   codes,
	}, nil
}

// ConfirmSetup checks that the user can produce a valid code for setup.Secret
// and, if so, persists the record, replacing any previous one. A wrong code
// returns a rejected Result and persists nothing.
func (s *Service) ConfirmSetup(ctx context.Context, ownerID string, setup *Setup, code string) (*Result, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwner
	}
	if setup == nil || len(setup.RecoveryCodes) == 0 {
		return nil, ErrInvalidSetup
	}

	res := s.newResult(ownerID, MethodTOTP)

	ok, err := totp.ValidateTOTPWithTime(setup.Secret, code, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	if !ok {
		res.reject(ReasonInvalidCode)
		s.logResult(ctx, "setup", res)
		return res, nil
	}

	stored, err := s.sealSecret(ownerID, setup.Secret)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(setup.RecoveryCodes))
	for i, c := range setup.RecoveryCodes {
		hashes[i] = s.hashCode(ownerID, c)
	}

	rec := &Record{
		OwnerID:       ownerID,
		Secret:        stored,
		RecoveryCodes: hashes,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save two-factor record: %w", err)
	}

	res.verify()
	res.RemainingRecoveryCodes = len(hashes)
	s.logResult(ctx, "setup", res)
	return res, nil
}

// Enabled reports whether ownerID has two-factor authentication enabled.
func (s *Service) Enabled(ctx context.Context, ownerID string) (bool, error) {
	_, err := s.store.Load(ctx, ownerID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Disable removes the owner's record, which also invalidates every recovery code.
func (s *Service) Disable(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return ErrInvalidOwner
	}
	if err := s.store.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("delete two-factor record: %w", err)
	}
	s.logger.InfoContext(ctx, "two-factor disabled",
		logger.Component("twofactor"),
		logger.OwnerID(ownerID),
		logger.Event("disabled"),
	)
	return nil
}

// RegenerateRecoveryCodes replaces the owner's recovery codes and keeps the secret.
// New codes never coincide with codes still stored for the owner. Only the code
// set is written, so a concurrent Disable or re-setup is never undone; a record
// removed in the meantime yields ErrNotFound.
func (s *Service) RegenerateRecoveryCodes(ctx context.Context, ownerID string) ([]string, error) {
	rec, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(rec.RecoveryCodes))
	for _, h := range rec.RecoveryCodes {
		existing[h] = struct{}{}
	}
	codes, err := totp.GenerateUniqueRecoveryCodes(s.codeCount, func(code string) bool {
		_, taken := existing[s.hashCode(ownerID, code)]
		return taken
	})
	if err != nil {
		return nil, err
	}

	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = s.hashCode(ownerID, c)
	}
	replaced, err := s.store.ReplaceRecoveryCodes(ctx, ownerID, hashes)
	if err != nil {
		return nil, fmt.Errorf("replace recovery codes: %w", err)
	}
	if !replaced {
		// Disabled after the load above.
		return nil, ErrNotFound
	}

	s.logger.InfoContext(ctx, "recovery codes regenerated",
		logger.Component("twofactor"),
		logger.OwnerID(ownerID),
		logger.Count("recovery_codes", len(codes)),
	)
	return codes, nil
}

// VerifyTOTP checks candidate against a plaintext secret at time at.
// A malformed candidate is a plain false; a malformed secret is ErrConfiguration.
func (s *Service) VerifyTOTP(candidate, secret string, at time.Time) (bool, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	ok, err := totp.ValidateTOTPWithTime(secret, candidate, at)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return ok, nil
}

// VerifyBackupCode reports whether candidate is among the available plaintext
// codes. Matching ignores case and formatting characters. Nothing is consumed.
func (s *Service) VerifyBackupCode(candidate string, available []string) bool {
	return totp.VerifyBackupCode(candidate, available)
}

// ConsumeBackupCode removes code from the owner's stored set. It returns
// false without error when the code is absent, so a retried request is harmless.
func (s *Service) ConsumeBackupCode(ctx context.Context, ownerID, code string) (bool, error) {
	if totp.NormalizeRecoveryCode(code) == "" {
		return false, nil
	}
	removed, err := s.store.RemoveRecoveryCode(ctx, ownerID, s.hashCode(ownerID, code))
	if err != nil {
		return false, fmt.Errorf("remove recovery code: %w", err)
	}
	return removed, nil
}

// Verify runs one login-time verification attempt for ownerID.
//
// Negative outcomes are reported through Result, never as errors. The returned
// error is ErrNotFound when two-factor authentication is not enabled,
// ErrConfiguration when the stored secret is unusable, or a store failure.
// A backup code is consumed exactly once, as part of an accepted attempt.
func (s *Service) Verify(ctx context.Context, ownerID string, req VerifyRequest) (*Result, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwner
	}
	if req == nil {
		return nil, ErrInvalidRequest
	}

	rec, err := s.store.Load(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load two-factor record: %w", err)
	}

	res := s.newResult(ownerID, req.method())
	res.RemainingRecoveryCodes = len(rec.RecoveryCodes)

	switch req.method() {
	case MethodTOTP:
		if err := s.verifyTOTP(rec, req.code(), res); err != nil {
			s.logger.ErrorContext(ctx, "two-factor secret unusable",
				logger.Component("twofactor"),
				logger.OwnerID(ownerID),
				logger.AttemptID(res.AttemptID),
				logger.Error(err),
			)
			return nil, err
		}
	case MethodBackupCode:
		if err := s.verifyBackup(ctx, rec, req.code(), res); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidRequest, req)
	}

	s.logResult(ctx, "login", res)
	return res, nil
}

func (s *Service) verifyTOTP(rec *Record, code string, res *Result) error {
	if !totp.IsWellFormedCode(code) {
		res.reject(ReasonInvalidCode)
		return nil
	}
	secret, err := s.openSecret(rec)
	if err != nil {
		return err
	}
	ok, err := s.VerifyTOTP(code, secret, s.clock.Now())
	if err != nil {
		return err
	}
	if ok {
		res.verify()
	} else {
		res.reject(ReasonInvalidCode)
	}
	return nil
}

func (s *Service) verifyBackup(ctx context.Context, rec *Record, code string, res *Result) error {
	if totp.NormalizeRecoveryCode(code) == "" || len(rec.RecoveryCodes) == 0 {
		res.reject(ReasonInvalidBackupCode)
		return nil
	}

	hash := s.hashCode(rec.OwnerID, code)
	match := 0
	for _, h := range rec.RecoveryCodes {
		match |= subtle.ConstantTimeCompare([]byte(hash), []byte(h))
	}
	if match != 1 {
		res.reject(ReasonInvalidBackupCode)
		return nil
	}

	removed, err := s.store.RemoveRecoveryCode(ctx, rec.OwnerID, hash)
	if err != nil {
		return fmt.Errorf("remove recovery code: %w", err)
	}
	if !removed {
		// A concurrent attempt consumed the same code first.
		s.logger.WarnContext(ctx, "recovery code already consumed",
			logger.Component("twofactor"),
			logger.OwnerID(rec.OwnerID),
			logger.AttemptID(res.AttemptID),
		)
		res.reject(ReasonInvalidBackupCode)
		return nil
	}

	res.RemainingRecoveryCodes = len(rec.RecoveryCodes) - 1
	res.verify()
	return nil
}

func (s *Service) newResult(ownerID string, m Method) *Result {
	return &Result{
		AttemptID: uuid.NewString(),
		OwnerID:   ownerID,
		Method:    m,
		State:     StateAwaitingFactor,
	}
}

func (s *Service) logResult(ctx context.Context, action string, res *Result) {
	level := slog.LevelInfo
	if res.State == StateRejected {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "two-factor attempt finished",
		logger.Component("twofactor"),
		logger.Action(action),
		logger.OwnerID(res.OwnerID),
		logger.AttemptID(res.AttemptID),
		logger.Method(string(res.Method)),
		logger.Result(res.State.String()),
		logger.Reason(string(res.Reason)),
		logger.Count("recovery_codes_left", res.RemainingRecoveryCodes),
	)
}

func (s *Service) sealSecret(ownerID, secret string) (string, error) {
	if s.masterKey == nil {
		return secret, nil
	}
	key, err := s.deriveKey(secretKeyInfo, ownerID)
	if err != nil {
		return "", err
	}
	return totp.EncryptSecret(secret, key)
}

// openSecret returns the plaintext secret or an error wrapping ErrConfiguration.
func (s *Service) openSecret(rec *Record) (string, error) {
	if rec.Secret == "" {
		return "", fmt.Errorf("%w: empty secret", ErrConfiguration)
	}
	secret := rec.Secret
	if s.masterKey != nil {
		key, err := s.deriveKey(secretKeyInfo, rec.OwnerID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		secret, err = totp.DecryptSecret(rec.Secret, key)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}
	if err := totp.ValidateSecret(secret); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return secret, nil
}

func (s *Service) hashCode(ownerID, code string) string {
	if s.masterKey == nil {
		return totp.HashRecoveryCode(code)
	}
	key, err := s.deriveKey(recoveryKeyInfo, ownerID)
	if err != nil {
		// Reading 32 bytes from HKDF-SHA256 cannot exceed its output limit.
		panic(err)
	}
	return totp.HashRecoveryCodeWithKey(code, key)
}

// deriveKey binds a per-owner key to the master key so records cannot be
// moved between owners.
func (s *Service) deriveKey(purpose, ownerID string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, s.masterKey, nil, []byte(purpose+ownerID))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
