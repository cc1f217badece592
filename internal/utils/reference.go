package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateTxRef builds a unique payment transaction reference. The
// provider requires the reference to be unique per payment attempt.
func GenerateTxRef(orderID uint) string {
	now := time.Now().UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	// 4-digit cryptographic random
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf(
		"KVM-%d-%s-%03d-%04d",
		orderID,
		datePart,
		millis,
		n.Int64(),
	)
}
