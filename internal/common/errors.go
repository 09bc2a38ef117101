package common

import "errors"

// Kind classifies an error into a stable category so upstream logic can
// switch on a code instead of inspecting message text.
type Kind int

const (
	// KindInternal unexpected failures, surfaced as a generic 500
	KindInternal Kind = iota
	// KindValidation malformed or rejected input, surfaced inline
	KindValidation
	// KindAuth missing/expired credentials or a policy rejection
	KindAuth
	// KindNotFound missing rows rendered as empty states, not failures
	KindNotFound
	// KindTransient best-effort side effects; logged, never surfaced
	KindTransient
)

// Error carries a Kind alongside the underlying error
type Error struct {
	Err  error
	Kind Kind
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind
func E(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Err: err, Kind: kind}
}

// KindOf extracts the Kind from err, defaulting to KindInternal
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberExists       = errors.New("member already exists")

	// Referral errors
	ErrCodeMalformed    = errors.New("referral code is malformed")
	ErrCodeIsLink       = errors.New("this is a shareable link code, paste a code, not a link")
	ErrCodeInvalid      = errors.New("referral code is not valid")
	ErrCodeRequired     = errors.New("a validated referral code is required")
	ErrLinkExpired      = errors.New("referral link has expired")
	ErrLinkInactive     = errors.New("referral link is no longer active")
	ErrApprovalNotReset = errors.New("only rejected referrals can be reset")
	ErrAwaitingApproval = errors.New("awaiting sponsor approval")

	// Connection errors
	ErrRequestExists    = errors.New("connection request already exists")
	ErrAlreadyConnected = errors.New("members are already connected")
	ErrNotConnected     = errors.New("members are not connected")

	// Messaging errors
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrNotParticipant = errors.New("not a member of this conversation")
	ErrNotSender      = errors.New("only the sender may delete a message")

	// Two-factor errors
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Rate limiting
	ErrRateLimited = errors.New("too many requests")
)
