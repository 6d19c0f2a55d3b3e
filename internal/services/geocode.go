package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

const (
	geocodeMaxAttempts = 3
	geocodeBaseDelay   = time.Second
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type GeocodingService interface {
	Geocode(ctx context.Context, address string) (*GeoPoint, error)
}

type geocodingService struct {
	log     *logger.Logger
	baseURL string
	apiKey  string
	http    *http.Client
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewGeocodingService(baseLog *logger.Logger) (GeocodingService, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("GEOCODING_BASE_URL")), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing GEOCODING_BASE_URL")
	}
	apiKey := strings.TrimSpace(os.Getenv("GEOCODING_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEOCODING_API_KEY")
	}
	return &geocodingService{
		log:     baseLog.With("service", "GeocodingService"),
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		sleep:   sleepContext,
	}, nil
}

// sleepContext waits out the backoff delay unless the context is cancelled
// first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type geocodeResponse struct {
	Results []struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"results"`
}

// Geocode resolves an address with a fixed exponential backoff: 3 attempts,
// 1s base delay, retrying transient failures only. "No results" is final and
// never retried.
func (gs *geocodingService) Geocode(ctx context.Context, address string) (*GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errs.Newf(errs.CodeValidationFailed, "address required")
	}

	var lastErr *errs.Error
	for attempt := 0; attempt < geocodeMaxAttempts; attempt++ {
		if attempt > 0 {
			delay := geocodeBaseDelay * time.Duration(1<<(attempt-1))
			gs.log.Debug("Retrying geocode", "attempt", attempt+1, "delay", delay.String())
			if err := gs.sleep(ctx, delay); err != nil {
				return nil, errs.New(errs.CodeNetworkUnavailable, err)
			}
		}

		point, err := gs.once(ctx, address)
		if err == nil {
			return point, nil
		}
		lastErr = errs.AsError(err)
		if !lastErr.Retryable {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (gs *geocodingService) once(ctx context.Context, address string) (*GeoPoint, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", gs.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gs.baseURL+"/geocode?"+q.Encode(), nil)
	if err != nil {
		return nil, errs.New(errs.CodeLocationFailed, err)
	}
	resp, err := gs.http.Do(req)
	if err != nil {
		return nil, errs.New(errs.CodeLocationFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, errs.Newf(errs.CodeLocationFailed, "geocoder status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		// client errors are final
		e := errs.Newf(errs.CodeLocationFailed, "geocoder status %d", resp.StatusCode)
		e.Retryable = false
		return nil, e
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.New(errs.CodeLocationFailed, err)
	}
	if len(out.Results) == 0 {
		return nil, errs.Newf(errs.CodeLocationNoResults, "address %q", address)
	}
	return &GeoPoint{Lat: out.Results[0].Lat, Lng: out.Results[0].Lng}, nil
}
