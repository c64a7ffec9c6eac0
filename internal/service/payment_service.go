package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

type PaymentService struct {
	users    UserStore
	bookings BookingStore
	payments PaymentStore
	gateway  PaymentGateway
	logger   *zap.Logger
}

func NewPaymentService(
	users UserStore,
	bookings BookingStore,
	payments PaymentStore,
	gateway PaymentGateway,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		users:    users,
		bookings: bookings,
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

type PaymentInput struct {
	BookingID   string
	Amount      float64
	Currency    string
	PaymentType model.PaymentType
}

// IntentResult is what the caller needs to complete the payment client-side.
type IntentResult struct {
	PaymentID    string  `json:"payment_id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
}

// CreateIntent opens a gateway payment intent for a booking and records the
// attempt as a pending payment. Only the booking's customer or an admin/owner
// may initiate payments for it.
func (s *PaymentService) CreateIntent(ctx context.Context, actorID string, input PaymentInput) (*IntentResult, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &model.NotFoundError{Resource: "booking"}
	}

	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpInitiatePayment, access.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}

	if input.Amount <= 0 {
		return nil, &model.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if !input.PaymentType.Valid() {
		return nil, &model.ValidationError{Field: "payment_type", Msg: "unknown payment type"}
	}
	if input.Currency == "" {
		input.Currency = "EUR"
	}

	intent, err := s.gateway.CreateIntent(ctx, toMinorUnits(input.Amount), input.Currency, map[string]string{
		"booking_id":   booking.ID,
		"customer_id":  booking.CustomerID,
		"payment_type": string(input.PaymentType),
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ID:              uuid.NewString(),
		BookingID:       booking.ID,
		GatewayIntentID: intent.ID,
		Amount:          input.Amount,
		Currency:        input.Currency,
		PaymentType:     input.PaymentType,
		Status:          model.PaymentStatusPending,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		// Intent already exists at the gateway at this point; the
		// inconsistency is accepted and surfaced, not compensated.
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", booking.ID),
		zap.Float64("amount", payment.Amount),
		zap.String("payment_type", string(payment.PaymentType)),
	)

	return &IntentResult{
		PaymentID:    payment.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       payment.Amount,
	}, nil
}

// Confirm checks settlement with the gateway and, once settled, marks the
// payment paid and derives the booking's statuses from the cumulative paid
// amount:
//
//	paid-sum >= total_price                ⇒ paid / confirmed
//	deposit <= paid-sum < total_price      ⇒ partial / confirmed
//	paid-sum < deposit                     ⇒ pending / pending
func (s *PaymentService) Confirm(ctx context.Context, actorID, paymentID string) (*model.Booking, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment == nil {
		return nil, &model.NotFoundError{Resource: "payment"}
	}

	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &model.NotFoundError{Resource: "booking"}
	}

	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpConfirmPayment, access.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}

	if payment.GatewayIntentID == "" {
		return nil, &model.PaymentNotCompleteError{PaymentID: payment.ID}
	}

	intent, err := s.gateway.RetrieveIntent(ctx, payment.GatewayIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Settled {
		return nil, &model.PaymentNotCompleteError{PaymentID: payment.ID}
	}

	paidAt := time.Now().UTC()
	if err := s.payments.MarkPaid(ctx, payment.ID, paidAt); err != nil {
		return nil, err
	}

	totalPaid, err := s.payments.SumPaidByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	var bookingStatus model.BookingStatus
	var paymentStatus model.PaymentStatus
	switch {
	case totalPaid >= booking.TotalPrice:
		bookingStatus, paymentStatus = model.BookingStatusConfirmed, model.PaymentStatusPaid
	case totalPaid >= booking.DepositAmount:
		bookingStatus, paymentStatus = model.BookingStatusConfirmed, model.PaymentStatusPartial
	default:
		bookingStatus, paymentStatus = model.BookingStatusPending, model.PaymentStatusPending
	}

	if err := s.bookings.UpdateStatuses(ctx, booking.ID, bookingStatus, paymentStatus); err != nil {
		return nil, err
	}

	booking.Status = bookingStatus
	booking.PaymentStatus = paymentStatus

	s.logger.Info("Payment confirmed",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", booking.ID),
		zap.Float64("total_paid", totalPaid),
		zap.String("booking_status", string(bookingStatus)),
		zap.String("payment_status", string(paymentStatus)),
	)

	return booking, nil
}

// ListForBooking returns all payment attempts for a booking, under the same
// authorization rule as initiation.
func (s *PaymentService) ListForBooking(ctx context.Context, actorID, bookingID string) ([]*model.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &model.NotFoundError{Resource: "booking"}
	}

	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpViewPayments, access.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}

	return s.payments.ListByBooking(ctx, bookingID)
}

// toMinorUnits converts a EUR-style decimal amount to integer cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
