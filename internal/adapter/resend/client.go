package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

var errAPIKeyMissing = errors.New("resend api key not configured")

// HTTPClient sends transactional emails through Resend.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type emailResponse struct {
	ID string `json:"id"`
}

// NewHTTPClient creates Resend client.
func NewHTTPClient(cfg config.ResendConfig, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("parse resend url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("resend url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    parsed,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Send renders notification and posts it to the emails endpoint.
func (c *HTTPClient) Send(ctx context.Context, n model.Notification) error {
	if c.apiKey == "" {
		return errAPIKeyMissing
	}
	html, err := Render(n)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(emailRequest{
		From:    c.from,
		To:      []string{n.To},
		Subject: n.Subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/emails")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("resend send: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var data emailResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err == nil {
		c.logger.InfoContext(ctx, "email sent",
			slog.String("kind", string(n.Kind)),
			slog.String("email_id", data.ID),
		)
	}
	return nil
}
