package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mercadillo/mercadillo/internal/config"
	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

const (
	providerName    = "mercadopago"
	defaultCurrency = "ARS"
	expirationForm  = "2006-01-02T15:04:05.000Z07:00"
	maxErrorBody    = 4 << 10
)

// HTTPClient talks to the MercadoPago REST API.
type HTTPClient struct {
	baseURL     *url.URL
	accessToken string
	currency    string
	httpClient  *http.Client
	logger      *slog.Logger
}

type preferenceItem struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

type preferencePhone struct {
	Number string `json:"number"`
}

type preferencePayer struct {
	Name  string           `json:"name,omitempty"`
	Email string           `json:"email"`
	Phone *preferencePhone `json:"phone,omitempty"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items               []preferenceItem `json:"items"`
	Payer               preferencePayer  `json:"payer"`
	BackURLs            backURLs         `json:"back_urls"`
	AutoReturn          string           `json:"auto_return"`
	NotificationURL     string           `json:"notification_url"`
	ExternalReference   string           `json:"external_reference"`
	Expires             bool             `json:"expires"`
	ExpirationDateFrom  string           `json:"expiration_date_from"`
	ExpirationDateTo    string           `json:"expiration_date_to"`
	StatementDescriptor string           `json:"statement_descriptor,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// paymentResponse mirrors the fields of GET /v1/payments/{id} used by reconciliation.
type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	PaymentTypeID     string      `json:"payment_type_id"`
	ExternalReference string      `json:"external_reference"`
	TransactionAmount float64     `json:"transaction_amount"`
}

// NewHTTPClient creates MercadoPago client authenticated with the configured access token.
func NewHTTPClient(cfg config.MercadoPagoConfig, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("parse mercadopago url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mercadopago url must be absolute")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("mercadopago access token must be provided")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &HTTPClient{
		baseURL:     parsed,
		accessToken: cfg.AccessToken,
		currency:    currency,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreatePreference opens a checkout preference.
func (c *HTTPClient) CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error) {
	body := preferenceRequest{
		Items: make([]preferenceItem, 0, len(req.Items)),
		Payer: preferencePayer{Name: req.Payer.Name, Email: req.Payer.Email},
		BackURLs: backURLs{
			Success: req.BackURLs.Success,
			Failure: req.BackURLs.Failure,
			Pending: req.BackURLs.Pending,
		},
		AutoReturn:          "approved",
		NotificationURL:     req.NotificationURL,
		ExternalReference:   req.ExternalReference,
		Expires:             true,
		ExpirationDateFrom:  req.ExpiresFrom.Format(expirationForm),
		ExpirationDateTo:    req.ExpiresTo.Format(expirationForm),
		StatementDescriptor: "MERCADILLO",
	}
	if req.Payer.Phone != "" {
		body.Payer.Phone = &preferencePhone{Number: req.Payer.Phone}
	}
	for _, item := range req.Items {
		body.Items = append(body.Items, preferenceItem{
			ID:         item.ID.String(),
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CurrencyID: c.currency,
			PictureURL: item.PictureURL,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(payload), "/checkout/preferences")
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Idempotency-Key", uuid.NewString())

	var data preferenceResponse
	if err := c.do(httpReq, &data); err != nil {
		return nil, err
	}
	return &model.Preference{ID: data.ID, InitPoint: data.InitPoint, SandboxInitPoint: data.SandboxInitPoint}, nil
}

// GetPayment fetches the authoritative payment object.
func (c *HTTPClient) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, nil, "/v1/payments", paymentID)
	if err != nil {
		return nil, err
	}

	var data paymentResponse
	if err := c.do(httpReq, &data); err != nil {
		return nil, err
	}

	id := data.ID.String()
	if id == "" {
		id = paymentID
	}
	return &model.Payment{
		ID:                id,
		Status:            model.PaymentStatus(data.Status),
		StatusDetail:      data.StatusDetail,
		PaymentType:       data.PaymentTypeID,
		ExternalReference: data.ExternalReference,
		TransactionAmount: data.TransactionAmount,
	}, nil
}

// newRequest targets route on the API base URL. Each param is escaped as a single path segment.
func (c *HTTPClient) newRequest(ctx context.Context, method string, body io.Reader, route string, params ...string) (*http.Request, error) {
	elems := []string{route}
	for _, p := range params {
		if p == "" || p == "." || p == ".." {
			return nil, fmt.Errorf("%s %s: invalid path parameter %q", method, route, p)
		}
		elems = append(elems, url.PathEscape(p))
	}
	endpoint := c.baseURL.JoinPath(elems...)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domainErrors.ErrPaymentProvider, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.ErrorContext(req.Context(), "mercadopago request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return &domainErrors.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domainErrors.ErrPaymentProvider, req.URL.Path, err)
	}
	return nil
}
