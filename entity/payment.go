package entity

import "time"

const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodPayPal     = "paypal"
	PaymentMethodRefund     = "refund"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment is a single charge or refund. A refund is a new row with a negative
// amount; the original charge row is never mutated.
type Payment struct {
	PaymentID      string    `json:"payment_id" db:"payment_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	BookingID      string    `json:"booking_id" db:"booking_id"`
	BookingType    string    `json:"booking_type" db:"booking_type"`
	Amount         float64   `json:"amount" db:"amount"`
	Currency       string    `json:"currency" db:"currency"`
	Tax            float64   `json:"tax" db:"tax"`
	PaymentMethod  string    `json:"payment_method" db:"payment_method"`
	Status         string    `json:"status" db:"status"`
	TransactionRef string    `json:"transaction_ref" db:"transaction_ref"`
	Details        string    `json:"details,omitempty" db:"details"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PaymentDetails is what the client submits at checkout. Card fields are
// required for card methods, PayPalEmail for paypal.
type PaymentDetails struct {
	CardNumber  string `json:"card_number,omitempty"`
	CVV         string `json:"cvv,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`
	PayPalEmail string `json:"paypal_email,omitempty"`
}
