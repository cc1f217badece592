package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func TestValidateCardNumber(t *testing.T) {
	t.Run("AcceptsSixteenDigits", func(t *testing.T) {
		assert.NoError(t, ValidateCardNumber("4111111111111111"))
	})

	t.Run("AcceptsSpacedInput", func(t *testing.T) {
		assert.NoError(t, ValidateCardNumber("4111 1111 1111 1111"))
	})

	t.Run("RejectsFifteenDigits", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCardNumber("4111111111111"), ErrInvalidCardNumber)
	})

	t.Run("RejectsLetters", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCardNumber("4111a11111111111"), ErrInvalidCardNumber)
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCardNumber(""), ErrInvalidCardNumber)
	})
}

func TestValidateExpiry(t *testing.T) {
	t.Run("FutureDate", func(t *testing.T) {
		assert.NoError(t, ValidateExpiry("12/27", testNow))
	})

	t.Run("CurrentMonthStillValid", func(t *testing.T) {
		assert.NoError(t, ValidateExpiry("08/26", testNow))
	})

	t.Run("PastMonth", func(t *testing.T) {
		assert.ErrorIs(t, ValidateExpiry("07/26", testNow), ErrInvalidExpiry)
	})

	t.Run("BadMonth", func(t *testing.T) {
		assert.ErrorIs(t, ValidateExpiry("13/27", testNow), ErrInvalidExpiry)
	})

	t.Run("BadFormat", func(t *testing.T) {
		assert.ErrorIs(t, ValidateExpiry("2027-12", testNow), ErrInvalidExpiry)
		assert.ErrorIs(t, ValidateExpiry("1/27", testNow), ErrInvalidExpiry)
	})
}

func TestValidateCVC(t *testing.T) {
	assert.NoError(t, ValidateCVC("123"))
	assert.ErrorIs(t, ValidateCVC("12"), ErrInvalidCVC)
	assert.ErrorIs(t, ValidateCVC("1234"), ErrInvalidCVC)
	assert.ErrorIs(t, ValidateCVC("12a"), ErrInvalidCVC)
}

func TestValidateMobileRW(t *testing.T) {
	valid := []string{
		"0788123456",
		"0722123456",
		"0733123456",
		"0790123456",
		"+250788123456",
		"250788123456",
		"788123456",
		"078 812 3456",
	}
	for _, num := range valid {
		assert.NoError(t, ValidateMobileRW(num), num)
	}

	invalid := []string{
		"0748123456", // no such operator prefix
		"078812345",  // too short
		"07881234567",
		"abc",
		"",
	}
	for _, num := range invalid {
		assert.ErrorIs(t, ValidateMobileRW(num), ErrInvalidMobileNumber, num)
	}
}

func TestValidateCard(t *testing.T) {
	card := CardDetails{Number: "4111 1111 1111 1111", Expiry: "12/27", CVC: "123"}
	assert.NoError(t, ValidateCard(card, testNow))

	card.CVC = "12"
	assert.ErrorIs(t, ValidateCard(card, testNow), ErrInvalidCVC)

	card.CVC = "123"
	card.Number = "4111111111111"
	assert.ErrorIs(t, ValidateCard(card, testNow), ErrInvalidCardNumber)
}
