package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

// Caller-facing messages per error kind
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgChallengeFailed    = "Bot verification failed, please retry verification"
	MsgForbidden          = "You don't have permission to access this resource"
	MsgDuplicateAccount   = "An account with this email already exists"
	MsgUnauthorized       = "Authentication required"
	MsgNotFound           = "Resource not found"
	MsgTooManyAttempts    = "Too many sign-in attempts, please try again later"
	MsgInternal           = "Something went wrong, please try again later"
)

// StatusFor maps an error kind onto an HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindChallengeFailed:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindDuplicateAccount:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTooManyAttempts:
		return http.StatusTooManyRequests
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the message shown to the caller for err. Only
// validation messages are passed through.
func MessageFor(err error) string {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation:
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return verr.Message
		}
		return err.Error()
	case domain.KindChallengeFailed:
		return MsgChallengeFailed
	case domain.KindInvalidCredentials:
		return MsgInvalidCredentials
	case domain.KindForbidden:
		switch {
		case errors.Is(err, domain.ErrEmailNotVerified):
			return "Please verify your email address before signing in"
		case errors.Is(err, domain.ErrRegistrationClosed):
			return "Registration is closed"
		}
		return MsgForbidden
	case domain.KindDuplicateAccount:
		return MsgDuplicateAccount
	case domain.KindUnauthorized:
		return MsgUnauthorized
	case domain.KindNotFound:
		return MsgNotFound
	case domain.KindTooManyAttempts:
		return MsgTooManyAttempts
	default:
		return MsgInternal
	}
}

// respondError writes err as a JSON error. Internal errors are logged and
// never reach the caller.
func respondError(c *gin.Context, log logging.Logger, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
	}

	body := gin.H{"error": MessageFor(err), "code": kind.String()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	c.JSON(StatusFor(kind), body)
}

// badRequest reports a malformed request body
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": domain.KindValidation.String(), "details": err.Error()})
}
