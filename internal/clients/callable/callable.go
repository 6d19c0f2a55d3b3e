// Package callable invokes the remote functions that live outside the
// database: portal link generation and teardown.
package callable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

type PortalLink struct {
	AccessToken string `json:"access_token"`
	PortalURL   string `json:"portal_url"`
}

type Client interface {
	GeneratePortalLink(ctx context.Context, projectID, portalID uuid.UUID) (*PortalLink, error)
	DisablePortalLink(ctx context.Context, portalID uuid.UUID) error
}

type client struct {
	log     *logger.Logger
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("CALLABLE_BASE_URL")), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing CALLABLE_BASE_URL")
	}
	apiKey := strings.TrimSpace(os.Getenv("CALLABLE_API_KEY"))
	return &client{
		log:     log.With("client", "CallableClient"),
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *client) GeneratePortalLink(ctx context.Context, projectID, portalID uuid.UUID) (*PortalLink, error) {
	body := map[string]string{
		"project_id": projectID.String(),
		"portal_id":  portalID.String(),
	}
	var out PortalLink
	if err := c.call(ctx, "generatePortalLink", body, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.PortalURL == "" {
		return nil, fmt.Errorf("generatePortalLink returned incomplete link")
	}
	return &out, nil
}

func (c *client) DisablePortalLink(ctx context.Context, portalID uuid.UUID) error {
	body := map[string]string{
		"portal_id": portalID.String(),
	}
	return c.call(ctx, "disablePortalLink", body, nil)
}

func (c *client) call(ctx context.Context, name string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("callable %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("callable %s: status %d: %s", name, resp.StatusCode, string(snippet))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
