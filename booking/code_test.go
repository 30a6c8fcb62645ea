package booking

import (
	"strings"
	"testing"
	"travel/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCodeShape(t *testing.T) {
	tests := map[string]string{
		entity.BookingTypeFlight: "F",
		entity.BookingTypeHotel:  "H",
		entity.BookingTypeCar:    "C",
	}

	for bookingType, prefix := range tests {
		t.Run(bookingType, func(t *testing.T) {
			code := newConfirmationCode(bookingType)

			require.Len(t, code, 15)
			assert.True(t, strings.HasPrefix(code, prefix))

			for _, r := range code[1:7] {
				assert.Contains(t, "0123456789", string(r))
			}
			for _, r := range code[7:] {
				assert.Contains(t, codeAlphabet, string(r))
			}
		})
	}
}

func TestNewConfirmationCodeUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10_000)
	for i := 0; i < 10_000; i++ {
		code := newConfirmationCode(entity.BookingTypeHotel)

		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s after %d codes", code, i)
		seen[code] = struct{}{}
	}
}
