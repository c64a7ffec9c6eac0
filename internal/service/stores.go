package service

import (
	"context"
	"time"

	"github.com/northsea/kiteschool/internal/model"
)

// Store interfaces are declared here, on the consuming side. The pgx
// repositories in internal/repository satisfy them; tests use in-memory
// fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	ListActiveInstructors(ctx context.Context) ([]*model.User, error)
	CountActiveInstructors(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id string, role model.UserRole) error
}

type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListActive(ctx context.Context) ([]*model.Course, error)
	ListByType(ctx context.Context, courseType model.CourseType) ([]*model.Course, error)
	ListBySpot(ctx context.Context, spot model.SpotLocation) ([]*model.Course, error)
	Deactivate(ctx context.Context, id string) error
}

type ScheduleStore interface {
	Upsert(ctx context.Context, schedule *model.InstructorSchedule) error
	GetAvailable(ctx context.Context, instructorID, date string, spot model.SpotLocation) (*model.InstructorSchedule, error)
	ListRange(ctx context.Context, instructorID, from, to string) ([]*model.InstructorSchedule, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveAtSlot(ctx context.Context, instructorID, date, startTime string) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListActiveOnDate(ctx context.Context, date string) ([]*model.Booking, error)
	CountActiveOnDate(ctx context.Context, date string) (int, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	UpdateStatuses(ctx context.Context, id string, status model.BookingStatus, paymentStatus model.PaymentStatus) error
}

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	SumPaidByBooking(ctx context.Context, bookingID string) (float64, error)
	SumPaidSince(ctx context.Context, since time.Time) (float64, error)
	CountPending(ctx context.Context) (int, error)
}

// PaymentGateway is the external settlement authority. The Stripe client in
// internal/stripe implements it.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.GatewayIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*model.GatewayIntent, error)
}
