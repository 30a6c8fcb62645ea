package booking

import (
	"regexp"
	"strings"
	"time"
	"travel/entity"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)

// validatePaymentDetails checks the payment shape locally, before any lock is
// taken. Capture itself is synchronous and authoritative; there is no gateway
// round trip to fail later.
func validatePaymentDetails(method string, details entity.PaymentDetails) error {
	switch method {
	case entity.PaymentMethodCreditCard, entity.PaymentMethodDebitCard:
		return validateCard(details)
	case entity.PaymentMethodPayPal:
		if details.PayPalEmail == "" {
			return validationErrorf("PayPal email is required")
		}
		return nil
	default:
		return validationErrorf("unsupported payment method: %s", method)
	}
}

func validateCard(details entity.PaymentDetails) error {
	number := strings.ReplaceAll(details.CardNumber, " ", "")
	if len(number) < 13 {
		return validationErrorf("invalid credit card number")
	}

	if len(details.CVV) < 3 || len(details.CVV) > 4 {
		return validationErrorf("invalid CVV")
	}

	m := expiryPattern.FindStringSubmatch(details.ExpiryDate)
	if m == nil {
		return validationErrorf("invalid expiry date, format must be MM/YY")
	}

	month := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	year := 2000 + int(m[2][0]-'0')*10 + int(m[2][1]-'0')

	// The card is valid through the end of its expiry month.
	expiry := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !expiry.After(time.Now().UTC()) {
		return validationErrorf("credit card has expired")
	}

	return nil
}

func validateCreateRequest(req CreateBookingRequest) error {
	if !entity.ValidBookingType(req.BookingType) {
		return validationErrorf("invalid booking type: %q", req.BookingType)
	}
	if req.EntityID == "" {
		return validationErrorf("entity id is required")
	}
	if req.Quantity < 1 {
		return validationErrorf("quantity must be at least 1")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return validationErrorf("start and end dates are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return validationErrorf("end date must not be before start date")
	}
	if req.Guests < 1 {
		return validationErrorf("guests must be at least 1")
	}
	if req.TotalAmount <= 0 {
		return validationErrorf("total amount must be positive")
	}
	if req.PaymentMethod == "" {
		return validationErrorf("payment method is required")
	}

	return validatePaymentDetails(req.PaymentMethod, req.PaymentDetails)
}
