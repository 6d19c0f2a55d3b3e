package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

func TestNew_FillsFromRegistry(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	e := New(CodeDatabaseWrite, cause)

	if e.Code != CodeDatabaseWrite {
		t.Fatalf("code: %q", e.Code)
	}
	if e.Category != CategoryDatabase {
		t.Fatalf("category: %q", e.Category)
	}
	if !e.Retryable {
		t.Fatalf("database write should be retryable")
	}
	if e.UserMsg == "" {
		t.Fatalf("missing user message")
	}
	if !errors.Is(e, cause) {
		t.Fatalf("cause not wrapped")
	}
}

func TestNew_UnregisteredCodeFallsBack(t *testing.T) {
	e := New("NOT_A_REAL_CODE", nil)
	if e.Code != CodeUnknown {
		t.Fatalf("expected %s got %s", CodeUnknown, e.Code)
	}
}

func TestIs(t *testing.T) {
	e := Newf(CodeListMaxItems, "list is full")
	if !Is(e, CodeListMaxItems) {
		t.Fatalf("Is should match code")
	}
	if Is(e, CodeListNotFound) {
		t.Fatalf("Is matched wrong code")
	}
	if Is(fmt.Errorf("plain"), CodeListMaxItems) {
		t.Fatalf("Is matched non-domain error")
	}
	if Is(nil, CodeListMaxItems) {
		t.Fatalf("Is matched nil")
	}
}

func TestAsError_WrapsNonDomainAsValidation(t *testing.T) {
	e := AsError(fmt.Errorf("something unexpected"))
	if e.Code != CodeValidationFailed {
		t.Fatalf("expected %s got %s", CodeValidationFailed, e.Code)
	}

	orig := Newf(CodeAuthRateLimited, "slow down")
	if AsError(orig) != orig {
		t.Fatalf("domain error should pass through unchanged")
	}
	if AsError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		code string
		want Severity
	}{
		{CodeDatabaseRead, SeverityCritical},
		{CodeAuthTokenInvalid, SeverityCritical},
		{CodeDatabaseWrite, SeverityRecoverable},
		{CodeNetworkUnavailable, SeverityRecoverable},
		{CodeListMaxItems, SeverityNonCritical},
		{CodeValidationFailed, SeverityNonCritical},
	}
	for _, tc := range cases {
		if got := Classify(Newf(tc.code, "x")); got != tc.want {
			t.Fatalf("Classify(%s): want=%s got=%s", tc.code, tc.want, got)
		}
	}
	if got := Classify(fmt.Errorf("plain")); got != SeverityNonCritical {
		t.Fatalf("plain error: want=%s got=%s", SeverityNonCritical, got)
	}
}

func TestRegistry_EveryCodeHasMessages(t *testing.T) {
	for code, d := range registry {
		if d.Code != code {
			t.Fatalf("descriptor code mismatch: key=%s code=%s", code, d.Code)
		}
		if d.DevMessage == "" || d.UserMessage == "" {
			t.Fatalf("code %s missing messages", code)
		}
		if d.Category == "" {
			t.Fatalf("code %s missing category", code)
		}
	}
}

func TestHandler_AttachesRetryOnlyWhenRecoverable(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	h := NewHandler(log)

	retry := func() {}
	recoverable := h.Handle(Newf(CodeStorageUpload, "x"), retry)
	if recoverable.Severity != SeverityRecoverable {
		t.Fatalf("severity: %s", recoverable.Severity)
	}
	if recoverable.Retry == nil {
		t.Fatalf("recoverable error should carry retry")
	}

	terminal := h.Handle(Newf(CodeListMaxItems, "x"), retry)
	if terminal.Retry != nil {
		t.Fatalf("non-recoverable error must not carry retry")
	}
	if terminal.UserMsg == "" {
		t.Fatalf("user message lost")
	}
}
