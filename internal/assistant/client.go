package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/logger"
)

var ErrNotConfigured = errors.New("assistant api key is not configured")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const systemPrompt = `You are the shopping assistant for KivuMart, a Rwandan online marketplace.
Answer questions about products, orders, delivery, payments (card, mobile money, crypto) and returns.
Prices are in Rwandan Francs (RWF). Be concise and friendly.`

// Chat sends the conversation plus optional storefront context and
// returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message, storeContext string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	log := logger.FromCtx(ctx)

	prompt := systemPrompt
	if storeContext != "" {
		prompt += "\n\nStore context:\n" + storeContext
	}

	payload := map[string]interface{}{
		"model":    c.model,
		"messages": append([]Message{{Role: "system", Content: prompt}}, messages...),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Assistant request failed", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read assistant response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Assistant returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return "", fmt.Errorf("assistant error: status %d", resp.StatusCode)
	}

	var res struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("assistant returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
