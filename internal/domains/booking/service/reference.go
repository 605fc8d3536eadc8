package service

import (
	"crypto/rand"
	"fmt"
	"meridian/shared/timezone"
)

const (
	referencePrefix       = "BK"
	referenceDateFormat   = "060102"
	referenceRandomLength = 6

	// No 0/O, 1/I/L or lookalikes: references get read over the phone.
	referenceAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// generateReference builds a human-readable booking reference such as
// BK250901X7Q2MF. The random tail keeps the collision chance negligible; the
// caller still retries on a unique violation because the reference column is
// the real guarantee.
func generateReference() (string, error) {
	buf := make([]byte, referenceRandomLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}

	return referencePrefix + timezone.Now().Format(referenceDateFormat) + string(buf), nil
}
