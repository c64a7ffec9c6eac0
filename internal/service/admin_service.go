package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

// AdminService covers user administration and the school dashboard.
type AdminService struct {
	users    UserStore
	bookings BookingStore
	payments PaymentStore
	courses  CourseStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewAdminService(
	users UserStore,
	bookings BookingStore,
	payments PaymentStore,
	courses CourseStore,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		bookings: bookings,
		payments: payments,
		courses:  courses,
		logger:   logger,
		now:      time.Now,
	}
}

// ListUsers returns every account. Admin/owner only.
func (s *AdminService) ListUsers(ctx context.Context, actorID string) ([]*model.User, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpListUsers, access.RelNone); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// ListInstructors returns all active instructors. Admin/owner only.
func (s *AdminService) ListInstructors(ctx context.Context, actorID string) ([]*model.User, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpListInstructors, access.RelNone); err != nil {
		return nil, err
	}
	return s.users.ListActiveInstructors(ctx)
}

// UpdateUserRole changes a user's role. Admins may reassign the customer and
// instructor roles; granting admin or owner requires an owner.
func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, targetID string, role model.UserRole) error {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	if err := authorize(actor, access.OpUpdateRole, access.RelNone); err != nil {
		return err
	}

	if !role.Valid() {
		return &model.ValidationError{Field: "role", Msg: "unknown role"}
	}

	if role.Privileged() {
		if err := authorize(actor, access.OpGrantPrivilegedRole, access.RelNone); err != nil {
			return err
		}
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}

	s.logger.Info("User role updated",
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID),
		zap.String("role", string(role)),
	)

	return nil
}

// Dashboard returns the admin overview: today's active bookings, this
// month's settled revenue, active instructor and pending payment counts.
func (s *AdminService) Dashboard(ctx context.Context, actorID string) (*model.DashboardStats, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpViewDashboard, access.RelNone); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := now.Format(dateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	todayBookings, err := s.bookings.CountActiveOnDate(ctx, today)
	if err != nil {
		return nil, err
	}

	monthRevenue, err := s.payments.SumPaidSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	activeInstructors, err := s.users.CountActiveInstructors(ctx)
	if err != nil {
		return nil, err
	}

	pendingPayments, err := s.payments.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalBookingsToday: todayBookings,
		TotalRevenueMonth:  monthRevenue,
		ActiveInstructors:  activeInstructors,
		PendingPayments:    pendingPayments,
	}, nil
}

// TodayBookings returns today's pending/confirmed bookings enriched with
// their customer, instructor and course records.
func (s *AdminService) TodayBookings(ctx context.Context, actorID string) ([]*model.BookingDetails, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpViewDashboard, access.RelNone); err != nil {
		return nil, err
	}

	today := s.now().UTC().Format(dateLayout)
	bookings, err := s.bookings.ListActiveOnDate(ctx, today)
	if err != nil {
		return nil, err
	}

	details := make([]*model.BookingDetails, 0, len(bookings))
	for _, booking := range bookings {
		course, err := s.courses.GetByID(ctx, booking.CourseID)
		if err != nil {
			return nil, err
		}
		customer, err := s.users.GetByID(ctx, booking.CustomerID)
		if err != nil {
			return nil, err
		}
		var instructor *model.User
		if booking.InstructorID != "" {
			instructor, err = s.users.GetByID(ctx, booking.InstructorID)
			if err != nil {
				return nil, err
			}
		}
		details = append(details, &model.BookingDetails{
			Booking:    booking,
			Course:     course,
			Customer:   customer,
			Instructor: instructor,
		})
	}

	return details, nil
}
