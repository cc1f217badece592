package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	digitsOnlyRegex = regexp.MustCompile(`^[0-9]+$`)
	// Rwandan mobile numbers: optional country code, then 07X with a
	// valid operator prefix and seven more digits.
	mobileRWRegex = regexp.MustCompile(`^(\+?250|0)?7[2389][0-9]{7}$`)
)

// ValidateCardNumber requires exactly 16 digits after stripping spaces.
func ValidateCardNumber(number string) error {
	n := strings.ReplaceAll(number, " ", "")
	if len(n) != 16 || !digitsOnlyRegex.MatchString(n) {
		return ErrInvalidCardNumber
	}
	return nil
}

// ValidateExpiry accepts MM/YY not in the past.
func ValidateExpiry(expiry string, now time.Time) error {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return ErrInvalidExpiry
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return ErrInvalidExpiry
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrInvalidExpiry
	}
	year += 2000

	// a card is valid through the end of its expiry month
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0)
	if !now.Before(endOfMonth) {
		return ErrInvalidExpiry
	}

	return nil
}

// ValidateCVC requires exactly 3 digits.
func ValidateCVC(cvc string) error {
	if len(cvc) != 3 || !digitsOnlyRegex.MatchString(cvc) {
		return ErrInvalidCVC
	}
	return nil
}

// ValidateMobileRW checks the Rwandan national mobile pattern.
func ValidateMobileRW(phone string) error {
	p := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !mobileRWRegex.MatchString(p) {
		return ErrInvalidMobileNumber
	}
	return nil
}

// ValidateCard runs all card field checks and returns the first failure.
func ValidateCard(card CardDetails, now time.Time) error {
	if err := ValidateCardNumber(card.Number); err != nil {
		return err
	}
	if err := ValidateExpiry(card.Expiry, now); err != nil {
		return err
	}
	return ValidateCVC(card.CVC)
}
