package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/logger"
)

// WalletClient talks to an Ethereum-compatible node over JSON-RPC for
// the crypto payment path. Connect must be called before any transfer;
// Close releases the session state.
type WalletClient struct {
	rpcURL         string
	receiveAddress string
	httpClient     *http.Client

	mu        sync.Mutex
	account   string
	chainID   string
	connected bool

	reqID atomic.Int64
}

func NewWalletClient(rpcURL, receiveAddress string) *WalletClient {
	return &WalletClient{
		rpcURL:         rpcURL,
		receiveAddress: receiveAddress,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (w *WalletClient) call(ctx context.Context, method string, params []any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      w.reqID.Add(1),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	var body rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("wallet rpc %s: decode response: %w", method, err)
	}
	if body.Error != nil {
		return fmt.Errorf("wallet rpc %s: %s (code %d)", method, body.Error.Message, body.Error.Code)
	}
	if out != nil {
		if err := json.Unmarshal(body.Result, out); err != nil {
			return fmt.Errorf("wallet rpc %s: decode result: %w", method, err)
		}
	}
	return nil
}

// Connect requests account access and records the active account and
// chain id. Calling Connect on an already-connected client refreshes
// both.
func (w *WalletClient) Connect(ctx context.Context) error {
	var accounts []string
	if err := w.call(ctx, "eth_requestAccounts", []any{}, &accounts); err != nil {
		// some nodes only expose eth_accounts
		if err2 := w.call(ctx, "eth_accounts", []any{}, &accounts); err2 != nil {
			return err
		}
	}
	if len(accounts) == 0 {
		return ErrWalletNotConnected
	}

	var chainID string
	if err := w.call(ctx, "eth_chainId", []any{}, &chainID); err != nil {
		return err
	}

	w.mu.Lock()
	w.account = accounts[0]
	w.chainID = chainID
	w.connected = true
	w.mu.Unlock()

	logger.FromCtx(ctx).Info("wallet connected",
		zap.String("account", accounts[0]),
		zap.String("chain_id", chainID))
	return nil
}

// Close drops the session. The next transfer requires a fresh Connect.
func (w *WalletClient) Close() {
	w.mu.Lock()
	w.account = ""
	w.chainID = ""
	w.connected = false
	w.mu.Unlock()
}

func (w *WalletClient) Account() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return "", ErrWalletNotConnected
	}
	return w.account, nil
}

// SendTransfer moves amountWei from the connected account to the
// configured receive address and returns the transaction hash.
func (w *WalletClient) SendTransfer(ctx context.Context, amountWei *big.Int) (string, error) {
	from, err := w.Account()
	if err != nil {
		return "", err
	}

	tx := map[string]string{
		"from":  from,
		"to":    w.receiveAddress,
		"value": "0x" + amountWei.Text(16),
	}

	var hash string
	if err := w.call(ctx, "eth_sendTransaction", []any{tx}, &hash); err != nil {
		return "", err
	}
	if hash == "" {
		return "", errors.New("node returned an empty transaction hash")
	}

	logger.FromCtx(ctx).Info("wallet transfer sent",
		zap.String("tx_hash", hash),
		zap.String("to", w.receiveAddress))
	return hash, nil
}

// ConfirmTransfer reports whether the transaction has been mined with
// a success status. A nil receipt means still pending.
func (w *WalletClient) ConfirmTransfer(ctx context.Context, txHash string) (bool, error) {
	var receipt *struct {
		Status      string `json:"status"`
		BlockNumber string `json:"blockNumber"`
	}
	if err := w.call(ctx, "eth_getTransactionReceipt", []any{txHash}, &receipt); err != nil {
		return false, err
	}
	if receipt == nil || receipt.BlockNumber == "" {
		return false, nil
	}
	if receipt.Status != "0x1" {
		return false, fmt.Errorf("transaction %s reverted", txHash)
	}
	return true, nil
}
