package payment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/logger"
)

// Dispatcher routes a payment to the path the chosen method requires
// and reduces every outcome to a TransactionResult.
type Dispatcher struct {
	gateway Gateway
	wallet  *WalletClient
	rates   RateProvider
	now     func() time.Time

	confirmInterval time.Duration
	confirmTimeout  time.Duration
}

type DispatchParams struct {
	Method Method
	Intent Intent
	// Card is only read on the test-card path.
	Card *CardDetails
}

func NewDispatcher(gateway Gateway, wallet *WalletClient, rates RateProvider) *Dispatcher {
	return &Dispatcher{
		gateway:         gateway,
		wallet:          wallet,
		rates:           rates,
		now:             time.Now,
		confirmInterval: 2 * time.Second,
		confirmTimeout:  60 * time.Second,
	}
}

// Dispatch initiates payment for the intent. Hosted paths return a
// redirect link and stay pending until the provider calls back; the
// crypto and test-card paths settle inline.
func (d *Dispatcher) Dispatch(ctx context.Context, p DispatchParams) TransactionResult {
	switch p.Method {
	case MethodCard, MethodMobileMoney:
		return d.dispatchHosted(ctx, p)
	case MethodCrypto:
		return d.dispatchCrypto(ctx, p.Intent)
	case MethodTestCard:
		return d.dispatchTestCard(ctx, p)
	default:
		return TransactionResult{OrderRef: p.Intent.TxRef, Err: ErrUnsupportedMethod}
	}
}

func (d *Dispatcher) dispatchHosted(ctx context.Context, p DispatchParams) TransactionResult {
	if p.Method == MethodMobileMoney {
		if err := ValidateMobileRW(p.Intent.Customer.Phone); err != nil {
			return TransactionResult{OrderRef: p.Intent.TxRef, Err: err}
		}
		if p.Intent.Options == "" {
			p.Intent.Options = "mobilemoneyrwanda"
		}
	}

	hosted, err := d.gateway.CreatePaymentLink(ctx, p.Intent)
	if err != nil {
		return TransactionResult{OrderRef: p.Intent.TxRef, Err: err}
	}

	return TransactionResult{
		Success:      true,
		OrderRef:     hosted.TxRef,
		RedirectLink: hosted.Link,
	}
}

func (d *Dispatcher) dispatchCrypto(ctx context.Context, intent Intent) TransactionResult {
	fail := func(err error) TransactionResult {
		return TransactionResult{OrderRef: intent.TxRef, Err: err}
	}

	if _, err := d.wallet.Account(); err != nil {
		if err := d.wallet.Connect(ctx); err != nil {
			return fail(err)
		}
	}

	rate, err := d.rates.Rate(ctx, "ETH", intent.Currency)
	if err != nil {
		return fail(fmt.Errorf("fetch exchange rate: %w", err))
	}

	wei, err := ConvertToWei(intent.Amount, rate)
	if err != nil {
		return fail(err)
	}

	hash, err := d.wallet.SendTransfer(ctx, wei)
	if err != nil {
		return fail(err)
	}

	if err := d.waitForConfirmation(ctx, hash); err != nil {
		return TransactionResult{OrderRef: intent.TxRef, TransactionID: hash, Err: err}
	}

	logger.FromCtx(ctx).Info("crypto payment confirmed",
		zap.String("tx_ref", intent.TxRef),
		zap.String("tx_hash", hash))

	return TransactionResult{
		Success:       true,
		OrderRef:      intent.TxRef,
		TransactionID: hash,
	}
}

func (d *Dispatcher) waitForConfirmation(ctx context.Context, txHash string) error {
	deadline := d.now().Add(d.confirmTimeout)
	ticker := time.NewTicker(d.confirmInterval)
	defer ticker.Stop()

	for {
		confirmed, err := d.wallet.ConfirmTransfer(ctx, txHash)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}
		if d.now().After(deadline) {
			return fmt.Errorf("transaction %s not confirmed in time: %w", txHash, ErrVerificationFailed)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) dispatchTestCard(ctx context.Context, p DispatchParams) TransactionResult {
	if p.Card == nil {
		return TransactionResult{OrderRef: p.Intent.TxRef, Err: ErrInvalidCardNumber}
	}
	if err := ValidateCard(*p.Card, d.now()); err != nil {
		return TransactionResult{OrderRef: p.Intent.TxRef, Err: err}
	}

	logger.FromCtx(ctx).Info("test card charge accepted",
		zap.String("tx_ref", p.Intent.TxRef))

	return TransactionResult{
		Success:       true,
		OrderRef:      p.Intent.TxRef,
		TransactionID: "test-" + p.Intent.TxRef,
	}
}
