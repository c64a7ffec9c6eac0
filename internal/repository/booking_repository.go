package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/northsea/kiteschool/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, customer_id, instructor_id, course_id, booking_date, start_time, end_time, spot, number_of_students, student_names, student_details, total_price, deposit_amount, status, payment_status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.InstructorID,
		&booking.CourseID,
		&booking.BookingDate,
		&booking.TimeSlot.StartTime,
		&booking.TimeSlot.EndTime,
		&booking.Spot,
		&booking.NumberOfStudents,
		&booking.StudentNames,
		&booking.StudentDetails,
		&booking.TotalPrice,
		&booking.DepositAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create persists a new booking. A partial unique index guards the
// (instructor, date, start_time) slot for active statuses, so a lost race
// between two concurrent requests surfaces as a Conflict here instead of a
// silent double-booking.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, instructor_id, course_id, booking_date, start_time, end_time, spot, number_of_students, student_names, student_details, total_price, deposit_amount, status, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.InstructorID,
		booking.CourseID,
		booking.BookingDate,
		booking.TimeSlot.StartTime,
		booking.TimeSlot.EndTime,
		booking.Spot,
		booking.NumberOfStudents,
		booking.StudentNames,
		booking.StudentDetails,
		booking.TotalPrice,
		booking.DepositAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return &model.ConflictError{Reason: "instructor slot already booked"}
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID fetches a booking by id, nil when missing.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// FindActiveAtSlot returns the pending/confirmed booking occupying the exact
// (instructor, date, start_time) slot, nil when the slot is free.
func (r *BookingRepository) FindActiveAtSlot(ctx context.Context, instructorID, date, startTime string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE instructor_id = $1 AND booking_date = $2 AND start_time = $3
		  AND status IN ('pending', 'confirmed')
		LIMIT 1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, instructorID, date, startTime))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active booking at slot: %w", err)
	}

	return booking, nil
}

// ListByCustomer returns all bookings made by a customer.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by customer: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByInstructor returns all bookings assigned to an instructor.
func (r *BookingRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE instructor_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, instructorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by instructor: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListAll returns every booking.
func (r *BookingRepository) ListAll(ctx context.Context) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListActiveOnDate returns pending/confirmed bookings for one day.
func (r *BookingRepository) ListActiveOnDate(ctx context.Context, date string) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_date = $1 AND status IN ('pending', 'confirmed')
		ORDER BY start_time ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list active bookings on date: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// CountActiveOnDate counts pending/confirmed bookings for one day.
func (r *BookingRepository) CountActiveOnDate(ctx context.Context, date string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booking_date = $1 AND status IN ('pending', 'confirmed')`

	var count int
	if err := r.pool.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active bookings on date: %w", err)
	}

	return count, nil
}

// UpdateStatus sets the booking status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "booking"}
	}

	return nil
}

// UpdateStatuses sets both the booking status and the derived payment status.
func (r *BookingRepository) UpdateStatuses(ctx context.Context, id string, status model.BookingStatus, paymentStatus model.PaymentStatus) error {
	query := `UPDATE bookings SET status = $1, payment_status = $2, updated_at = now() WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, status, paymentStatus, id)
	if err != nil {
		return fmt.Errorf("update booking statuses: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "booking"}
	}

	return nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}
