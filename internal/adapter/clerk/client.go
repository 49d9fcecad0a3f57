package clerk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mercadillo/mercadillo/internal/config"
	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

var errSecretMissing = errors.New("clerk secret key not configured")

// HTTPClient resolves buyer profiles from the Clerk backend API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type userResponse struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
}

// NewHTTPClient creates Clerk client.
func NewHTTPClient(cfg config.ClerkConfig, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("parse clerk url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("clerk url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    parsed,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// GetBuyer returns the buyer's name and primary email address.
func (c *HTTPClient) GetBuyer(ctx context.Context, userID string) (*model.Buyer, error) {
	if c.secretKey == "" {
		return nil, errSecretMissing
	}
	if userID == "" || userID == "." || userID == ".." {
		return nil, domainErrors.ErrNotFound
	}

	endpoint := c.baseURL.JoinPath("/v1/users", url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clerk get user: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	default:
		c.logger.WarnContext(ctx, "clerk user lookup failed",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("clerk get user: unexpected status %d", resp.StatusCode)
	}

	var data userResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode clerk user: %w", err)
	}

	return &model.Buyer{
		ID:        data.ID,
		Email:     data.primaryEmail(),
		FirstName: data.FirstName,
		LastName:  data.LastName,
	}, nil
}

func (u userResponse) primaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.ID == u.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}
