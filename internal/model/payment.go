package model

import "time"

type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeBalance PaymentType = "balance"
	PaymentTypeFull    PaymentType = "full"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeDeposit || t == PaymentTypeBalance || t == PaymentTypeFull
}

// Payment is one payment attempt against a booking. It is created pending
// and marked paid only after the gateway confirms settlement.
type Payment struct {
	ID              string        `json:"id"`
	BookingID       string        `json:"booking_id"`
	GatewayIntentID string        `json:"gateway_intent_id,omitempty"`
	Amount          float64       `json:"amount"`
	Currency        string        `json:"currency"`
	PaymentType     PaymentType   `json:"payment_type"`
	Status          PaymentStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
}

// GatewayIntent is the gateway-side view of a payment intent.
type GatewayIntent struct {
	ID           string
	ClientSecret string
	Settled      bool
}

// DashboardStats is the admin overview snapshot.
type DashboardStats struct {
	TotalBookingsToday int     `json:"total_bookings_today"`
	TotalRevenueMonth  float64 `json:"total_revenue_month"`
	ActiveInstructors  int     `json:"active_instructors"`
	PendingPayments    int     `json:"pending_payments"`
}
