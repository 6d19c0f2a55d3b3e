package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

func newTestGeocoder(t *testing.T, srv *httptest.Server) (*geocodingService, *[]time.Duration) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	var delays []time.Duration
	gs := &geocodingService{
		log:     log.With("service", "GeocodingService"),
		baseURL: srv.URL,
		apiKey:  "test-key",
		http:    srv.Client(),
		sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return ctx.Err()
		},
	}
	return gs, &delays
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "The Old Barn, Somerset" {
			t.Fatalf("address param: %q", got)
		}
		w.Write([]byte(`{"results":[{"lat":51.1,"lng":-2.7}]}`))
	}))
	defer srv.Close()
	gs, delays := newTestGeocoder(t, srv)

	point, err := gs.Geocode(context.Background(), "The Old Barn, Somerset")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if point.Lat != 51.1 || point.Lng != -2.7 {
		t.Fatalf("point: %+v", point)
	}
	if len(*delays) != 0 {
		t.Fatalf("unexpected retries: %v", *delays)
	}
}

func TestGeocode_NoResultsIsFinal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()
	gs, delays := newTestGeocoder(t, srv)

	_, err := gs.Geocode(context.Background(), "nowhere at all")
	if !errs.Is(err, errs.CodeLocationNoResults) {
		t.Fatalf("expected %s got %v", errs.CodeLocationNoResults, err)
	}
	if calls != 1 {
		t.Fatalf("zero results must not retry: %d calls", calls)
	}
	if len(*delays) != 0 {
		t.Fatalf("unexpected backoff: %v", *delays)
	}
}

func TestGeocode_ServerErrorRetriesWithBackoff(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	gs, delays := newTestGeocoder(t, srv)

	_, err := gs.Geocode(context.Background(), "somewhere flaky")
	if !errs.Is(err, errs.CodeLocationFailed) {
		t.Fatalf("expected %s got %v", errs.CodeLocationFailed, err)
	}
	if calls != 3 {
		t.Fatalf("attempts: want=3 got=%d", calls)
	}
	if len(*delays) != 2 || (*delays)[0] != time.Second || (*delays)[1] != 2*time.Second {
		t.Fatalf("backoff schedule: %v", *delays)
	}
}

func TestGeocode_RecoversOnLaterAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results":[{"lat":40.7,"lng":-74.0}]}`))
	}))
	defer srv.Close()
	gs, _ := newTestGeocoder(t, srv)

	point, err := gs.Geocode(context.Background(), "city hall")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if point.Lat != 40.7 {
		t.Fatalf("point: %+v", point)
	}
	if calls != 3 {
		t.Fatalf("calls: want=3 got=%d", calls)
	}
}

func TestGeocode_ClientErrorIsFinal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	gs, _ := newTestGeocoder(t, srv)

	_, err := gs.Geocode(context.Background(), "anywhere")
	if !errs.Is(err, errs.CodeLocationFailed) {
		t.Fatalf("expected %s got %v", errs.CodeLocationFailed, err)
	}
	if calls != 1 {
		t.Fatalf("client error must not retry: %d calls", calls)
	}
}

func TestGeocode_CancelledContextSkipsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		cancel()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	gs := &geocodingService{
		log:     log.With("service", "GeocodingService"),
		baseURL: srv.URL,
		apiKey:  "test-key",
		http:    srv.Client(),
		sleep:   sleepContext,
	}

	start := time.Now()
	_, err = gs.Geocode(ctx, "somewhere flaky")
	if !errs.Is(err, errs.CodeNetworkUnavailable) {
		t.Fatalf("expected %s got %v", errs.CodeNetworkUnavailable, err)
	}
	if calls != 1 {
		t.Fatalf("calls after cancellation: want=1 got=%d", calls)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("cancelled backoff still waited %v", elapsed)
	}
}

func TestGeocode_EmptyAddressRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	}))
	defer srv.Close()
	gs, _ := newTestGeocoder(t, srv)

	_, err := gs.Geocode(context.Background(), "   ")
	if !errs.Is(err, errs.CodeValidationFailed) {
		t.Fatalf("expected %s got %v", errs.CodeValidationFailed, err)
	}
}
