package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nyumbani/backend/internal/infrastructure/config"
)

// STKPushRequest is an M-Pesa STK push initiation
type STKPushRequest struct {
	Phone            string
	Amount           decimal.Decimal
	AccountReference string
	Description      string
}

// STKPushResponse is Daraja's acknowledgement of an STK push
type STKPushResponse struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
	CustomerMessage   string `json:"CustomerMessage"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// DarajaClient speaks the Daraja (M-Pesa) REST API
type DarajaClient struct {
	client *resty.Client
	cfg    config.MpesaConfig
	logger *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewDarajaClient creates a Daraja API client
func NewDarajaClient(cfg config.MpesaConfig, logger *zap.Logger) *DarajaClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	return &DarajaClient{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// token returns a cached OAuth token, refreshing when within a minute of expiry
func (c *DarajaClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	var body tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&body).
		Get("/oauth/v1/generate")
	if err != nil {
		return "", fmt.Errorf("daraja token request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("daraja token request rejected: %s", resp.Status())
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(55 * time.Minute)
	return c.accessToken, nil
}

// InitiateSTKPush asks Daraja to push a payment prompt to the payer's phone
func (c *DarajaClient) InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))

	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            req.Amount.Round(0).String(),
		"PartyA":            req.Phone,
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       req.Phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	var body STKPushResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(payload).
		SetResult(&body).
		Post("/mpesa/stkpush/v1/processrequest")
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stk push rejected: %s", resp.Status())
	}
	if body.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push declined: %s", body.ResponseDesc)
	}

	c.logger.Info("stk push accepted",
		zap.String("checkout_request_id", body.CheckoutRequestID),
		zap.String("phone", req.Phone))

	return &body, nil
}
