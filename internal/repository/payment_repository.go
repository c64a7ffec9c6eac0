package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/northsea/kiteschool/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, booking_id, gateway_intent_id, amount, currency, payment_type, status, created_at, paid_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var payment model.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.GatewayIntentID,
		&payment.Amount,
		&payment.Currency,
		&payment.PaymentType,
		&payment.Status,
		&payment.CreatedAt,
		&payment.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create persists a new payment attempt.
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, gateway_intent_id, amount, currency, payment_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		payment.ID,
		payment.BookingID,
		payment.GatewayIntentID,
		payment.Amount,
		payment.Currency,
		payment.PaymentType,
		payment.Status,
	).Scan(&payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetByID fetches a payment by id, nil when missing.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	return payment, nil
}

// ListByBooking returns all payment attempts for a booking.
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list payments by booking: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// MarkPaid sets a payment to paid with the settlement timestamp.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	query := `UPDATE payments SET status = $1, paid_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, model.PaymentStatusPaid, paidAt, id)
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "payment"}
	}

	return nil
}

// SumPaidByBooking sums the amounts of all paid payments for a booking.
func (r *PaymentRepository) SumPaidByBooking(ctx context.Context, bookingID string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE booking_id = $1 AND status = 'paid'`

	var total float64
	if err := r.pool.QueryRow(ctx, query, bookingID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum paid payments: %w", err)
	}

	return total, nil
}

// SumPaidSince sums paid amounts settled at or after the given time.
func (r *PaymentRepository) SumPaidSince(ctx context.Context, since time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid' AND paid_at >= $1`

	var total float64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum paid payments since: %w", err)
	}

	return total, nil
}

// CountPending counts payment attempts still awaiting settlement.
func (r *PaymentRepository) CountPending(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM payments WHERE status = 'pending'`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending payments: %w", err)
	}

	return count, nil
}
