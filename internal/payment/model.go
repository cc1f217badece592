package payment

import "time"

// Method tags how an order is (to be) paid.
type Method string

const (
	MethodCard        Method = "card"
	MethodMobileMoney Method = "mobile_money"
	MethodCrypto      Method = "crypto"
	// MethodTestCard submits directly to the provider; staging only.
	MethodTestCard Method = "test_card"
)

// Intent is the provider-agnostic description of a payment to initiate.
type Intent struct {
	TxRef    string
	OrderID  uint
	Amount   int64  // RWF
	Currency string // "RWF"
	Customer Customer
	Options  string // provider payment options, e.g. "card,mobilemoneyrwanda"
}

type Customer struct {
	Email string
	Phone string
	Name  string
}

// HostedPayment is the handoff to an external checkout page.
type HostedPayment struct {
	TxRef   string
	Link    string
	AmountR int64
}

// Verification is the provider's authoritative answer for a transaction.
type Verification struct {
	TransactionID string
	TxRef         string
	Status        string // "successful" | "failed" | "pending"
	Amount        int64
	Currency      string
	PaidAt        *time.Time
}

func (v *Verification) Successful() bool {
	return v != nil && v.Status == "successful"
}

// TransactionResult is the uniform outcome every payment path returns.
type TransactionResult struct {
	Success       bool
	OrderRef      string
	TransactionID string
	RedirectLink  string // set for hosted redirect paths
	Err           error
}

// CardDetails is only ever populated on the test-card path; the real
// card paths never see card data server-side.
type CardDetails struct {
	Number string
	Expiry string // MM/YY
	CVC    string
}
