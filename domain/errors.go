package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrChallengeFailed    = errors.New("bot challenge verification failed")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrUnknownRole        = errors.New("unknown role")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrSessionRevoked = errors.New("session has been revoked")
)

// OAuth errors
var (
	ErrOAuthStateInvalid = errors.New("oauth state is invalid or expired")
	ErrOAuthExchange     = errors.New("oauth code exchange failed")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("insufficient role permissions")
	ErrResourceNotFound = errors.New("resource not found")
)

// ValidationError reports missing or malformed input. Its message is
// safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorKind is the caller-facing classification of a failure
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindChallengeFailed
	KindInvalidCredentials
	KindForbidden
	KindDuplicateAccount
	KindUnauthorized
	KindNotFound
	KindTooManyAttempts
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindChallengeFailed:
		return "challenge_failed"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindTooManyAttempts:
		return "too_many_attempts"
	default:
		return "internal"
	}
}

// KindOf classifies err. NoSuchUser and InvalidPassword collapse into
// one kind so callers cannot tell them apart.
func KindOf(err error) ErrorKind {
	var verr *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrChallengeFailed):
		return KindChallengeFailed
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrEmailNotVerified),
		errors.Is(err, ErrRegistrationClosed):
		return KindForbidden
	case errors.Is(err, ErrUserAlreadyExists):
		return KindDuplicateAccount
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrSessionRevoked),
		errors.Is(err, ErrOAuthStateInvalid):
		return KindUnauthorized
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrTooManyAttempts):
		return KindTooManyAttempts
	default:
		return KindInternal
	}
}
