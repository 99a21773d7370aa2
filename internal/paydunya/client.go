package paydunya

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"petit-marche/pkg/logger"
)

const defaultBaseURL = "https://app.paydunya.com/api/v1"

// ErrMissingCredentials indicates the gateway keys are not configured. It is
// reported before any network call is attempted.
var ErrMissingCredentials = errors.New("paydunya credentials not configured")

// ProviderError carries a non-success answer from the gateway.
type ProviderError struct {
	StatusCode   int
	ResponseCode string
	Detail       string
}

func (e *ProviderError) Error() string {
	if e.ResponseCode != "" {
		return fmt.Sprintf("paydunya error (code %s): %s", e.ResponseCode, e.Detail)
	}
	return fmt.Sprintf("paydunya error (http %d): %s", e.StatusCode, e.Detail)
}

type Config struct {
	MasterKey  string
	PrivateKey string
	PublicKey  string
	Token      string
	Mode       string
	BaseURL    string
	Timeout    time.Duration
}

// Client provides typed access to the PayDunya checkout-invoice API.
type Client struct {
	cfg     Config
	http    *http.Client
	baseURL string
	logger  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		baseURL: base,
		logger:  log,
	}
}

// Invoice is the checkout-invoice creation payload expected by PayDunya.
type Invoice struct {
	Invoice    InvoiceDetails         `json:"invoice"`
	Store      Store                  `json:"store"`
	Customer   Customer               `json:"customer"`
	Items      map[string]Item        `json:"items"`
	Actions    Actions                `json:"actions"`
	CustomData map[string]interface{} `json:"custom_data"`
}

type InvoiceDetails struct {
	TotalAmount int    `json:"total_amount"`
	Description string `json:"description"`
}

type Store struct {
	Name string `json:"name"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Item struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	Description string `json:"description"`
}

type Actions struct {
	ReturnURL   string `json:"return_url"`
	CancelURL   string `json:"cancel_url"`
	CallbackURL string `json:"callback_url"`
}

// CheckoutSession is the usable part of a successful invoice creation.
type CheckoutSession struct {
	Token       string
	CheckoutURL string
}

type createInvoiceResponse struct {
	ResponseCode string `json:"response_code"`
	ResponseText string `json:"response_text"`
	Description  string `json:"description"`
	Token        string `json:"token"`
}

// CreateInvoice registers a hosted checkout session with the gateway.
func (c *Client) CreateInvoice(ctx context.Context, invoice Invoice) (*CheckoutSession, error) {
	if c.cfg.MasterKey == "" || c.cfg.PrivateKey == "" || c.cfg.Token == "" {
		return nil, ErrMissingCredentials
	}

	body, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout-invoice/create", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PAYDUNYA-MASTER-KEY", c.cfg.MasterKey)
	req.Header.Set("PAYDUNYA-PRIVATE-KEY", c.cfg.PrivateKey)
	req.Header.Set("PAYDUNYA-TOKEN", c.cfg.Token)
	req.Header.Set("PAYDUNYA-MODE", c.cfg.Mode)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call paydunya: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read paydunya response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	var parsed createInvoiceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse paydunya response: %w", err)
	}

	if parsed.ResponseCode != "00" {
		detail := parsed.ResponseText
		if detail == "" {
			detail = parsed.Description
		}
		return nil, &ProviderError{StatusCode: resp.StatusCode, ResponseCode: parsed.ResponseCode, Detail: detail}
	}

	c.logger.Info("PayDunya invoice created: token=%s amount=%d", parsed.Token, invoice.Invoice.TotalAmount)

	// On success response_text carries the hosted checkout URL.
	return &CheckoutSession{
		Token:       parsed.Token,
		CheckoutURL: parsed.ResponseText,
	}, nil
}
