package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// Active reports whether the booking still occupies its slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusPartial, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

type Booking struct {
	ID               string         `json:"id"`
	CustomerID       string         `json:"customer_id"`
	InstructorID     string         `json:"instructor_id,omitempty"` // empty until matched
	CourseID         string         `json:"course_id"`
	BookingDate      string         `json:"booking_date"` // YYYY-MM-DD
	TimeSlot         TimeSlot       `json:"time_slot"`
	Spot             SpotLocation   `json:"spot"`
	NumberOfStudents int            `json:"number_of_students"`
	StudentNames     []string       `json:"student_names"`
	StudentDetails   map[string]any `json:"student_details"` // weights, experience, special requirements
	TotalPrice       float64        `json:"total_price"`
	DepositAmount    float64        `json:"deposit_amount"`
	Status           BookingStatus  `json:"status"`
	PaymentStatus    PaymentStatus  `json:"payment_status"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// BookingDetails is a booking enriched with its related records.
type BookingDetails struct {
	Booking    *Booking   `json:"booking"`
	Course     *Course    `json:"course,omitempty"`
	Customer   *User      `json:"customer,omitempty"`
	Instructor *User      `json:"instructor,omitempty"`
	Payments   []*Payment `json:"payments"`
}
