package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"time"
)

// RateProvider answers "how many units of to for one unit of from".
// The wallet path uses it for RWF to ETH conversion instead of a
// hardcoded rate.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

type httpRateProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPRateProvider(baseURL string) RateProvider {
	return &httpRateProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *httpRateProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	u := fmt.Sprintf("%s/rate?from=%s&to=%s",
		p.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate lookup failed: status %d", resp.StatusCode)
	}

	var body struct {
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.Rate <= 0 {
		return 0, errors.New("rate lookup returned a non-positive rate")
	}

	return body.Rate, nil
}

// StaticRateProvider serves fixed rates; the fallback when no rate API
// is configured.
type StaticRateProvider map[string]float64

func (s StaticRateProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	rate, ok := s[from+"/"+to]
	if !ok {
		return 0, fmt.Errorf("no rate configured for %s/%s", from, to)
	}
	return rate, nil
}

var weiPerEth = new(big.Float).SetFloat64(1e18)

// ConvertToWei turns an RWF amount into wei given rwfPerEth.
func ConvertToWei(amountRWF int64, rwfPerEth float64) (*big.Int, error) {
	if rwfPerEth <= 0 {
		return nil, errors.New("exchange rate must be positive")
	}

	eth := new(big.Float).Quo(
		new(big.Float).SetInt64(amountRWF),
		new(big.Float).SetFloat64(rwfPerEth),
	)

	wei, _ := new(big.Float).Mul(eth, weiPerEth).Int(nil)
	return wei, nil
}
