package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"kivumart-be/internal/logger"
	"kivumart-be/internal/utils"

	"go.uber.org/zap"
)

const defaultFlutterwaveBaseURL = "https://api.flutterwave.com"

type flutterwaveGateway struct {
	baseURL     string
	secretKey   string
	webhookHash string
	redirectURL string
	httpClient  *http.Client
}

// ----------------- Constructor -----------------

func NewFlutterwaveGateway(secretKey, webhookHash, redirectURL string) Gateway {
	if secretKey == "" {
		logger.L().Warn("Flutterwave secret key is empty")
	}

	return &flutterwaveGateway{
		baseURL:     defaultFlutterwaveBaseURL,
		secretKey:   secretKey,
		webhookHash: webhookHash,
		redirectURL: redirectURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewFlutterwaveGatewayWithBaseURL exists for tests against a stub server.
func NewFlutterwaveGatewayWithBaseURL(baseURL, secretKey, webhookHash, redirectURL string) Gateway {
	g := NewFlutterwaveGateway(secretKey, webhookHash, redirectURL).(*flutterwaveGateway)
	g.baseURL = baseURL
	return g
}

// ----------------- CreatePaymentLink -----------------

func (g *flutterwaveGateway) CreatePaymentLink(ctx context.Context, intent Intent) (*HostedPayment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("tx_ref", intent.TxRef),
		zap.Uint("order_id", intent.OrderID),
		zap.Int64("amount", intent.Amount),
	)

	options := intent.Options
	if options == "" {
		options = "card,mobilemoneyrwanda"
	}

	body := map[string]interface{}{
		"tx_ref":          intent.TxRef,
		"amount":          intent.Amount,
		"currency":        intent.Currency,
		"redirect_url":    g.redirectURL,
		"payment_options": options,
		"customer": map[string]interface{}{
			"email":       intent.Customer.Email,
			"phonenumber": utils.NormalizePhoneRW(intent.Customer.Phone),
			"name":        intent.Customer.Name,
		},
		"customizations": map[string]interface{}{
			"title":       "KivuMart",
			"description": fmt.Sprintf("Payment for order #%d", intent.OrderID),
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("Failed to marshal payment request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v3/payments", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Add("Authorization", "Bearer "+g.secretKey)
	req.Header.Add("Content-Type", "application/json")

	log.Info("Sending payment request to Flutterwave")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Flutterwave request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flutterwave response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Flutterwave returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("flutterwave error: %s", string(bodyBytes))
	}

	var res struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding Flutterwave response", zap.Error(err))
		return nil, err
	}

	if res.Status != "success" || res.Data.Link == "" {
		log.Error("Flutterwave rejected payment",
			zap.String("status", res.Status),
			zap.String("message", res.Message),
		)
		return nil, fmt.Errorf("flutterwave error: %s", res.Message)
	}

	log.Info("Flutterwave payment link created")

	return &HostedPayment{
		TxRef:   intent.TxRef,
		Link:    res.Data.Link,
		AmountR: intent.Amount,
	}, nil
}

// ----------------- VerifyTransaction -----------------

func (g *flutterwaveGateway) VerifyTransaction(ctx context.Context, transactionID string) (*Verification, error) {
	log := logger.FromCtx(ctx).With(zap.String("transaction_id", transactionID))

	if transactionID == "" {
		return nil, ErrMissingTransaction
	}

	url := fmt.Sprintf("%s/v3/transactions/%s/verify", g.baseURL, transactionID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+g.secretKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Verification request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flutterwave response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Flutterwave returned error",
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("flutterwave error: %s", string(bodyBytes))
	}

	var res struct {
		Status string `json:"status"`
		Data   struct {
			ID       json.Number `json:"id"`
			TxRef    string      `json:"tx_ref"`
			Status   string      `json:"status"`
			Amount   int64       `json:"amount"`
			Currency string      `json:"currency"`
			PaidAt   *time.Time  `json:"created_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding verification", zap.Error(err))
		return nil, err
	}

	if res.Status != "success" {
		return nil, ErrVerificationFailed
	}

	return &Verification{
		TransactionID: res.Data.ID.String(),
		TxRef:         res.Data.TxRef,
		Status:        res.Data.Status,
		Amount:        res.Data.Amount,
		Currency:      res.Data.Currency,
		PaidAt:        res.Data.PaidAt,
	}, nil
}

// ----------------- Verify Signature -----------------

func (g *flutterwaveGateway) VerifySignature(r *http.Request) error {
	sig := r.Header.Get("verif-hash")
	expected := g.webhookHash

	if expected == "" {
		return nil // skip in dev
	}

	if sig != expected {
		return errors.New("invalid webhook signature")
	}
	return nil
}
