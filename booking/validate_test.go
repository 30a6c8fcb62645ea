package booking

import (
	"fmt"
	"testing"
	"time"
	"travel/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() entity.PaymentDetails {
	return entity.PaymentDetails{
		CardNumber: "4111 1111 1111 1111",
		CVV:        "123",
		ExpiryDate: futureExpiry(),
	}
}

func futureExpiry() string {
	next := time.Now().UTC().AddDate(1, 0, 0)
	return fmt.Sprintf("%02d/%02d", int(next.Month()), next.Year()%100)
}

func TestValidateCard(t *testing.T) {
	tests := map[string]struct {
		details entity.PaymentDetails
		wantErr string
	}{
		"valid card": {
			details: validCard(),
		},
		"spaces stripped before length check": {
			details: entity.PaymentDetails{
				CardNumber: "4111 1111 1111 1",
				CVV:        "123",
				ExpiryDate: futureExpiry(),
			},
		},
		"number too short": {
			details: entity.PaymentDetails{
				CardNumber: "411111111111",
				CVV:        "123",
				ExpiryDate: futureExpiry(),
			},
			wantErr: "invalid credit card number",
		},
		"cvv too short": {
			details: entity.PaymentDetails{
				CardNumber: "4111111111111111",
				CVV:        "12",
				ExpiryDate: futureExpiry(),
			},
			wantErr: "invalid CVV",
		},
		"cvv too long": {
			details: entity.PaymentDetails{
				CardNumber: "4111111111111111",
				CVV:        "12345",
				ExpiryDate: futureExpiry(),
			},
			wantErr: "invalid CVV",
		},
		"four digit cvv accepted": {
			details: entity.PaymentDetails{
				CardNumber: "4111111111111111",
				CVV:        "1234",
				ExpiryDate: futureExpiry(),
			},
		},
		"malformed expiry": {
			details: entity.PaymentDetails{
				CardNumber: "4111111111111111",
				CVV:        "123",
				ExpiryDate: "13/30",
			},
			wantErr: "invalid expiry date, format must be MM/YY",
		},
		"expired card": {
			details: entity.PaymentDetails{
				CardNumber: "4111111111111111",
				CVV:        "123",
				ExpiryDate: "01/20",
			},
			wantErr: "credit card has expired",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := validateCard(tc.details)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.ErrorAs(t, err, &ValidationError{})
		})
	}
}

func TestValidateCardExpiresEndOfMonth(t *testing.T) {
	now := time.Now().UTC()
	details := entity.PaymentDetails{
		CardNumber: "4111111111111111",
		CVV:        "123",
		ExpiryDate: fmt.Sprintf("%02d/%02d", int(now.Month()), now.Year()%100),
	}

	assert.NoError(t, validateCard(details))
}

func TestValidatePaymentDetails(t *testing.T) {
	t.Run("paypal requires email", func(t *testing.T) {
		err := validatePaymentDetails(entity.PaymentMethodPayPal, entity.PaymentDetails{})
		assert.ErrorContains(t, err, "PayPal email is required")

		err = validatePaymentDetails(entity.PaymentMethodPayPal, entity.PaymentDetails{
			PayPalEmail: "buyer@example.com",
		})
		assert.NoError(t, err)
	})

	t.Run("unsupported method rejected", func(t *testing.T) {
		err := validatePaymentDetails("bank_transfer", validCard())
		assert.ErrorContains(t, err, "unsupported payment method")
	})

	t.Run("debit card uses card validation", func(t *testing.T) {
		err := validatePaymentDetails(entity.PaymentMethodDebitCard, entity.PaymentDetails{})
		assert.ErrorContains(t, err, "invalid credit card number")
	})
}

func TestValidateCreateRequest(t *testing.T) {
	valid := CreateBookingRequest{
		BookingType:    entity.BookingTypeFlight,
		EntityID:       "FL-100",
		Quantity:       1,
		StartDate:      time.Now().Add(48 * time.Hour),
		EndDate:        time.Now().Add(72 * time.Hour),
		Guests:         1,
		TotalAmount:    199.99,
		PaymentMethod:  entity.PaymentMethodCreditCard,
		PaymentDetails: validCard(),
	}
	require.NoError(t, validateCreateRequest(valid))

	tests := map[string]struct {
		mutate  func(r *CreateBookingRequest)
		wantErr string
	}{
		"unknown booking type": {
			mutate:  func(r *CreateBookingRequest) { r.BookingType = "train" },
			wantErr: "invalid booking type",
		},
		"missing entity id": {
			mutate:  func(r *CreateBookingRequest) { r.EntityID = "" },
			wantErr: "entity id is required",
		},
		"zero quantity": {
			mutate:  func(r *CreateBookingRequest) { r.Quantity = 0 },
			wantErr: "quantity must be at least 1",
		},
		"missing dates": {
			mutate:  func(r *CreateBookingRequest) { r.StartDate = time.Time{} },
			wantErr: "start and end dates are required",
		},
		"end before start": {
			mutate: func(r *CreateBookingRequest) {
				r.EndDate = r.StartDate.Add(-time.Hour)
			},
			wantErr: "end date must not be before start date",
		},
		"zero guests": {
			mutate:  func(r *CreateBookingRequest) { r.Guests = 0 },
			wantErr: "guests must be at least 1",
		},
		"non-positive amount": {
			mutate:  func(r *CreateBookingRequest) { r.TotalAmount = 0 },
			wantErr: "total amount must be positive",
		},
		"missing payment method": {
			mutate:  func(r *CreateBookingRequest) { r.PaymentMethod = "" },
			wantErr: "payment method is required",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := validateCreateRequest(req)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
