package payment

import "errors"

var (
	// ErrUserCancelled marks a user-initiated abort during hosted
	// checkout. Recoverable: the order stays pending for a retry.
	ErrUserCancelled = errors.New("payment cancelled by user")

	ErrInvalidCardNumber   = errors.New("card number must be 16 digits")
	ErrInvalidExpiry       = errors.New("card expiry is invalid or in the past")
	ErrInvalidCVC          = errors.New("cvc must be 3 digits")
	ErrInvalidMobileNumber = errors.New("invalid mobile number")

	ErrWalletNotConnected = errors.New("wallet is not connected")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrMissingTransaction = errors.New("transaction reference is required")
)
