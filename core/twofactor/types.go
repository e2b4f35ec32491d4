package twofactor

import (
	"time"

	"github.com/dmitrymomot/twofactor/pkg/qrcode"
)

// Record is the persisted two-factor state of an owner.
// It exists if and only if two-factor authentication is enabled.
type Record struct {
	OwnerID string
	// Secret is the base32 TOTP key, encrypted when the service has an encryption key.
	Secret string
	// RecoveryCodes holds hashes of the unused recovery codes in issue order.
	RecoveryCodes []string
	CreatedAt     time.Time
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.RecoveryCodes = append([]string(nil), r.RecoveryCodes...)
	return &c
}

// Setup is a freshly generated secret that has not been persisted yet.
// Show it to the user, then pass it to Service.ConfirmSetup together with
// the first code from their authenticator.
type Setup struct {
	AccountName     string
	Secret          string
	ProvisioningURI string
	// RecoveryCodes are plaintext and only available at this point.
	RecoveryCodes []string
}

// QRCode renders the provisioning URI as a data:image/png;base64 URI.
func (s *Setup) QRCode(size int) (string, error) {
	return qrcode.GenerateBase64Image(s.ProvisioningURI, size)
}

// Method identifies the factor used in a verification attempt.
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodBackupCode Method = "backup_code"
)

// VerifyRequest is either a TOTPAttempt or a BackupAttempt.
type VerifyRequest interface {
	method() Method
	code() string
}

// TOTPAttempt submits a code from the authenticator app.
type TOTPAttempt struct {
	Code string
}

func (TOTPAttempt) method() Method { return MethodTOTP }
func (a TOTPAttempt) code() string { return a.Code }

// BackupAttempt submits a single-use recovery code.
type BackupAttempt struct {
	Code string
}

func (BackupAttempt) method() Method { return MethodBackupCode }
func (a BackupAttempt) code() string { return a.Code }

// State of a verification attempt.
type State uint8

const (
	StateAwaitingFactor State = iota
	StateVerified
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateAwaitingFactor:
		return "awaiting_factor"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Reason explains a rejection. It is empty for verified attempts.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidCode       Reason = "invalid code"
	ReasonInvalidBackupCode Reason = "invalid backup code"
)

// Result is the terminal outcome of a single verification attempt.
type Result struct {
	AttemptID string
	OwnerID   string
	Method    Method
	State     State
	Reason    Reason
	// RemainingRecoveryCodes counts unused recovery codes after this attempt.
	RemainingRecoveryCodes int
}

// Verified reports whether the attempt authorizes completing the login.
func (r *Result) Verified() bool {
	return r != nil && r.State == StateVerified
}

func (r *Result) verify() {
	if r.State == StateAwaitingFactor {
		r.State = StateVerified
	}
}

func (r *Result) reject(reason Reason) {
	if r.State == StateAwaitingFactor {
		r.State = StateRejected
		r.Reason = reason
	}
}
