package booking

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newConfirmationCode builds a human-facing code: booking-type prefix, the
// millisecond clock tail, eight random characters. Codes are additionally
// collision-checked against the bookings table before use.
func newConfirmationCode(bookingType string) string {
	prefix := strings.ToUpper(bookingType[:1])
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(timestamp) > 6 {
		timestamp = timestamp[len(timestamp)-6:]
	}

	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	suffix := make([]byte, 8)
	for i, b := range buf {
		suffix[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return prefix + timestamp + string(suffix)
}
