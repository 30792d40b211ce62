package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/auth"
	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	conversationdomain "github.com/brandloom/brandloom/internal/conversation/domain"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	organizationdomain "github.com/brandloom/brandloom/internal/organization/domain"
	paymentdomain "github.com/brandloom/brandloom/internal/payment/domain"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns errors recorded on the gin context into one
// JSON error body with the right status. Handlers call AbortWithError and
// never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, userdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}

	case errors.Is(err, ErrForbidden),
		errors.Is(err, requestdomain.ErrNotOwner),
		errors.Is(err, milestonedomain.ErrNotOwner),
		errors.Is(err, invoicedomain.ErrNotOwner),
		errors.Is(err, conversationdomain.ErrNotParticipant):
		return http.StatusForbidden, errorPayload{Type: "forbidden", Message: err.Error()}

	case errors.Is(err, userdomain.ErrEmailTaken),
		errors.Is(err, referraldomain.ErrAlreadyReferred),
		errors.Is(err, invoicedomain.ErrAlreadyPaid):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, milestonedomain.ErrNotReviewable):
		return http.StatusBadRequest, errorPayload{Type: "invalid_state", Message: err.Error()}

	case errors.Is(err, paymentdomain.ErrVerificationFailed):
		return http.StatusBadRequest, errorPayload{Type: "payment_failed", Message: err.Error()}

	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrPlanNotFound),
		errors.Is(err, requestdomain.ErrNotFound),
		errors.Is(err, requestdomain.ErrRelatedNotFound),
		errors.Is(err, milestonedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrContactNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidPassword),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidTitle),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrPlansRequired),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, requestdomain.ErrInvalidDates),
		errors.Is(err, requestdomain.ErrInvalidPrice),
		errors.Is(err, requestdomain.ErrInvalidStatus),
		errors.Is(err, requestdomain.ErrMilestonesRequired),
		errors.Is(err, requestdomain.ErrInvalidID),
		errors.Is(err, requestdomain.ErrInvalidPageToken),
		errors.Is(err, milestonedomain.ErrInvalidReviewStatus),
		errors.Is(err, milestonedomain.ErrReasonRequired),
		errors.Is(err, milestonedomain.ErrDeliverableRequired),
		errors.Is(err, milestonedomain.ErrInvalidTitle),
		errors.Is(err, milestonedomain.ErrInvalidDeadline),
		errors.Is(err, milestonedomain.ErrInvalidID),
		errors.Is(err, referraldomain.ErrInvalidEmail),
		errors.Is(err, conversationdomain.ErrEmptyMessage),
		errors.Is(err, conversationdomain.ErrInvalidID),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidEmail),
		errors.Is(err, organizationdomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidReference):
		return true
	default:
		return false
	}
}

// classifyErrorForLog gives the request logger the mapped error type and the
// underlying sentinel code.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := ""
	if err != nil {
		code = err.Error()
	}
	return payload.Type, code
}
