package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

func observedFunnel() (*errs.Handler, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	return errs.NewHandler(log), logs
}

func errorResponse(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)

	var env ErrorEnvelope
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &env); decodeErr != nil {
		t.Fatalf("decode envelope: %v", decodeErr)
	}
	return w, env
}

func TestRespondError_LogsThroughFunnelExactlyOnce(t *testing.T) {
	funnel, logs := observedFunnel()
	UseErrorFunnel(funnel)
	defer UseErrorFunnel(nil)

	w, env := errorResponse(t, errs.Newf(errs.CodeListMaxItems, "list is full"))

	if logs.Len() != 1 {
		t.Fatalf("funnel log entries: want=1 got=%d", logs.Len())
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
	if env.Error.Code != errs.CodeListMaxItems {
		t.Fatalf("code: want=%s got=%s", errs.CodeListMaxItems, env.Error.Code)
	}
}

func TestRespondError_CriticalErrorLogsAtErrorLevel(t *testing.T) {
	funnel, logs := observedFunnel()
	UseErrorFunnel(funnel)
	defer UseErrorFunnel(nil)

	w, env := errorResponse(t, errs.Newf(errs.CodeDatabaseRead, "select failed"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("funnel log entries: want=1 got=%d", len(entries))
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Fatalf("level: want=%s got=%s", zap.ErrorLevel, entries[0].Level)
	}
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status: want=%d got=%d", http.StatusBadGateway, w.Code)
	}
	if env.Error.Severity != string(errs.SeverityCritical) {
		t.Fatalf("severity: want=%s got=%s", errs.SeverityCritical, env.Error.Severity)
	}
}

func TestRespondError_WithoutFunnelStillResponds(t *testing.T) {
	UseErrorFunnel(nil)

	w, env := errorResponse(t, errs.Newf(errs.CodePortalStepFinalized, "already finalized"))

	if w.Code != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, w.Code)
	}
	if env.Error.Code != errs.CodePortalStepFinalized {
		t.Fatalf("code: want=%s got=%s", errs.CodePortalStepFinalized, env.Error.Code)
	}
}
