// Package payment implements the hosted checkout gateway.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	mpPreferencesPath = "/checkout/preferences"
	mpPaymentPath     = "/v1/payments/%s"
)

var _ trade.PaymentGateway = (*MercadoPagoAdapter)(nil)

// ErrGatewayUnavailable wraps transport failures and 5xx answers from the gateway
var ErrGatewayUnavailable = shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is unavailable")

// MercadoPagoAdapter implements trade.PaymentGateway against the MercadoPago REST API
type MercadoPagoAdapter struct {
	cfg        config.MercadoPagoConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewMercadoPagoAdapter creates the adapter. The access token is required.
func NewMercadoPagoAdapter(cfg config.MercadoPagoConfig, logger *zap.Logger) (*MercadoPagoAdapter, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("mercadopago: access token is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("mercadopago: invalid base url: %w", err)
	}
	if cfg.Currency == "" {
		cfg.Currency = "ARS"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MercadoPagoAdapter{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Named("mercadopago"),
	}, nil
}

// CreatePreference registers a hosted checkout for the order
func (a *MercadoPagoAdapter) CreatePreference(ctx context.Context, req trade.PreferenceRequest) (*trade.Preference, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	items := make([]mpItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = mpItem{
			ID:         it.ProductID.String(),
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
			CurrencyID: a.cfg.Currency,
		}
	}
	payer := mpPayer{Name: req.Payer.Name, Surname: req.Payer.Surname, Email: req.Payer.Email}
	if req.Payer.Phone != "" {
		payer.Phone = &mpPhone{Number: req.Payer.Phone}
	}

	body := mpPreferenceRequest{
		Items: items,
		Payer: payer,
		BackURLs: mpBackURLs{
			Success: a.cfg.SuccessURL,
			Failure: a.cfg.FailureURL,
			Pending: a.cfg.PendingURL,
		},
		NotificationURL:   a.cfg.WebhookURL,
		ExternalReference: req.OrderID.String(),
	}
	// MercadoPago rejects auto_return without a success URL
	if a.cfg.SuccessURL != "" {
		body.AutoReturn = "approved"
	}

	var resp mpPreferenceResponse
	if err := a.do(ctx, http.MethodPost, mpPreferencesPath, body, &resp); err != nil {
		return nil, err
	}
	a.logger.Info("Checkout preference created",
		zap.String("order_id", req.OrderID.String()),
		zap.String("preference_id", resp.ID))

	return &trade.Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

// GetPayment fetches a payment by its gateway id
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*trade.GatewayPayment, error) {
	if paymentID == "" {
		return nil, trade.ErrGatewayNotFound
	}
	var resp mpPaymentResponse
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf(mpPaymentPath, url.PathEscape(paymentID)), nil, &resp); err != nil {
		return nil, err
	}
	return &trade.GatewayPayment{
		ID:                strconv.FormatInt(resp.ID, 10),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
		Amount:            resp.TransactionAmount,
		MethodID:          resp.PaymentMethodID,
	}, nil
}

// VerifySignature checks hex(HMAC-SHA256(secret, body)). A "sha256=" prefix is accepted.
// Without a configured secret every signature is rejected.
func (a *MercadoPagoAdapter) VerifySignature(body []byte, signature string) bool {
	if a.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(a.cfg.WebhookSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

func (a *MercadoPagoAdapter) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("mercadopago: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("Gateway request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return trade.ErrGatewayNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: HTTP %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		var errResp mpErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("mercadopago: %s (%s)", errResp.Message, errResp.Error)
		}
		return fmt.Errorf("mercadopago: HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("mercadopago: failed to decode response: %w", err)
	}
	return nil
}
