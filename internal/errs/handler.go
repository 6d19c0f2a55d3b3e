package errs

import (
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

// Handler is the single funnel every surfaced error passes through. It logs
// the error with its classification and, for recoverable errors, attaches the
// retry action the caller provided.
type Handler struct {
	log *logger.Logger
}

// Handled is what the presentation layer receives.
type Handled struct {
	Code      string
	UserMsg   string
	Severity  Severity
	Retryable bool
	Retry     func()
}

func NewHandler(log *logger.Logger) *Handler {
	return &Handler{log: log.With("component", "ErrorHandler")}
}

func (h *Handler) Handle(err error, retry func()) Handled {
	e := AsError(err)
	sev := Classify(e)
	switch sev {
	case SeverityCritical:
		h.log.Error("critical error", "code", e.Code, "category", string(e.Category), "error", e.Err)
	default:
		h.log.Warn("handled error", "code", e.Code, "category", string(e.Category), "severity", string(sev), "error", e.Err)
	}
	out := Handled{
		Code:      e.Code,
		UserMsg:   e.UserMsg,
		Severity:  sev,
		Retryable: e.Retryable,
	}
	if sev == SeverityRecoverable && retry != nil {
		out.Retry = retry
	}
	return out
}
