package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Severity  string `json:"severity"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var errorFunnel *errs.Handler

// UseErrorFunnel installs the process-wide error funnel every surfaced error
// is logged through. Called once from main before the router starts.
func UseErrorFunnel(h *errs.Handler) {
	errorFunnel = h
}

// RespondError routes the error through the funnel and maps it to an HTTP
// status and the error envelope. The user-facing message goes over the wire;
// the developer message stays in the logs.
func RespondError(c *gin.Context, err error) {
	e := errs.AsError(err)
	severity := errs.Classify(e)
	if errorFunnel != nil {
		severity = errorFunnel.Handle(e, nil).Severity
	}
	c.JSON(statusFor(e), ErrorEnvelope{
		Error: APIError{
			Code:      e.Code,
			Message:   e.UserMsg,
			Retryable: e.Retryable,
			Severity:  string(severity),
		},
	})
}

func statusFor(e *errs.Error) int {
	switch e.Code {
	case errs.CodeAuthInvalidCredentials, errs.CodeAuthTokenInvalid:
		return http.StatusUnauthorized
	case errs.CodeAuthRateLimited:
		return http.StatusTooManyRequests
	case errs.CodeAuthEmailInUse, errs.CodePortalExists, errs.CodePortalStepFinalized:
		return http.StatusConflict
	case errs.CodeListNotFound, errs.CodeListItemNotFound, errs.CodePortalNotFound,
		errs.CodePortalStepNotFound, errs.CodeDatabaseNotFound:
		return http.StatusNotFound
	case errs.CodeImageUploadDisabled, errs.CodeImageLimitReached:
		return http.StatusForbidden
	}
	switch e.Category {
	case errs.CategoryValidation, errs.CategoryList, errs.CategoryLocation:
		return http.StatusBadRequest
	case errs.CategoryDatabase, errs.CategoryStorage, errs.CategoryNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
