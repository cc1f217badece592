package payment

import (
	"context"
	"net/http"
	"net/url"
)

// Gateway abstracts the hosted checkout provider.
type Gateway interface {
	// CreatePaymentLink registers a payment intent and returns the
	// hosted page the customer is redirected to.
	CreatePaymentLink(ctx context.Context, intent Intent) (*HostedPayment, error)
	// VerifyTransaction asks the provider for the authoritative status
	// of a transaction. Finalization must not trust anything else.
	VerifyTransaction(ctx context.Context, transactionID string) (*Verification, error)
	// VerifySignature checks a webhook request actually came from the
	// provider.
	VerifySignature(r *http.Request) error
}

// CallbackParams is what the provider appends to the redirect URL when
// the customer returns from hosted checkout.
type CallbackParams struct {
	TransactionID string
	TxRef         string
	Status        string
}

// ParseCallback extracts the provider's completion parameters from the
// redirect query. A cancelled status maps to ErrUserCancelled so the
// checkout UI can reset without treating it as a failure.
func ParseCallback(query url.Values) (*CallbackParams, error) {
	p := &CallbackParams{
		TransactionID: query.Get("transaction_id"),
		TxRef:         query.Get("tx_ref"),
		Status:        query.Get("status"),
	}

	switch p.Status {
	case "cancelled":
		return p, ErrUserCancelled
	case "":
		return nil, ErrMissingTransaction
	}

	if p.Status == "successful" && p.TransactionID == "" {
		return nil, ErrMissingTransaction
	}

	return p, nil
}
