package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/model"
)

type adminFixture struct {
	users    *fakeUserStore
	bookings *fakeBookingStore
	payments *fakePaymentStore
	courses  *fakeCourseStore
	svc      *AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	f := &adminFixture{
		users:    newFakeUserStore(),
		bookings: newFakeBookingStore(),
		payments: newFakePaymentStore(),
		courses:  newFakeCourseStore(),
	}
	f.svc = NewAdminService(f.users, f.bookings, f.payments, f.courses, zap.NewNop())

	ctx := context.Background()
	for _, u := range []*model.User{
		{ID: "owner-1", Email: "owner@example.com", Role: model.RoleOwner, IsActive: true},
		{ID: "admin-1", Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true},
		{ID: "inst-1", Email: "jonas@example.com", Role: model.RoleInstructor, IsActive: true},
		{ID: "cust-1", Email: "anna@example.com", Role: model.RoleCustomer, IsActive: true},
	} {
		require.NoError(t, f.users.Create(ctx, u))
	}

	return f
}

func TestUpdateUserRoleEscalation(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	// An admin may hand out unprivileged roles.
	require.NoError(t, f.svc.UpdateUserRole(ctx, "admin-1", "cust-1", model.RoleInstructor))

	// But granting admin or owner takes an owner.
	err := f.svc.UpdateUserRole(ctx, "admin-1", "cust-1", model.RoleAdmin)
	require.True(t, model.IsForbidden(err))
	err = f.svc.UpdateUserRole(ctx, "admin-1", "cust-1", model.RoleOwner)
	require.True(t, model.IsForbidden(err))

	require.NoError(t, f.svc.UpdateUserRole(ctx, "owner-1", "cust-1", model.RoleAdmin))
	require.Equal(t, model.RoleAdmin, f.users.users["cust-1"].Role)
}

func TestUpdateUserRoleRequiresAdmin(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.UpdateUserRole(context.Background(), "cust-1", "inst-1", model.RoleCustomer)
	require.True(t, model.IsForbidden(err))
}

func TestUpdateUserRoleValidation(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	var validation *model.ValidationError
	err := f.svc.UpdateUserRole(ctx, "owner-1", "cust-1", "superuser")
	require.ErrorAs(t, err, &validation)

	err = f.svc.UpdateUserRole(ctx, "owner-1", "missing", model.RoleInstructor)
	require.True(t, model.IsNotFound(err))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	users, err := f.svc.ListUsers(ctx, "admin-1")
	require.NoError(t, err)
	require.Len(t, users, 4)

	_, err = f.svc.ListUsers(ctx, "cust-1")
	require.True(t, model.IsForbidden(err))

	instructors, err := f.svc.ListInstructors(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, instructors, 1)
	require.Equal(t, "inst-1", instructors[0].ID)
}

func TestDashboard(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.bookings.Create(ctx, &model.Booking{
		ID: "b-1", CustomerID: "cust-1", InstructorID: "inst-1", CourseID: "c-1",
		BookingDate: "2026-09-15", TimeSlot: model.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		Status: model.BookingStatusConfirmed, PaymentStatus: model.PaymentStatusPartial,
	}))
	require.NoError(t, f.bookings.Create(ctx, &model.Booking{
		ID: "b-2", CustomerID: "cust-1", InstructorID: "inst-1", CourseID: "c-1",
		BookingDate: "2026-09-16", TimeSlot: model.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		Status: model.BookingStatusPending, PaymentStatus: model.PaymentStatusPending,
	}))

	// One settled payment this month, one from August, one still pending.
	require.NoError(t, f.payments.Create(ctx, &model.Payment{
		ID: "p-1", BookingID: "b-1", Amount: 36.0, Currency: "EUR",
		PaymentType: model.PaymentTypeDeposit, Status: model.PaymentStatusPending,
	}))
	require.NoError(t, f.payments.MarkPaid(ctx, "p-1", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.payments.Create(ctx, &model.Payment{
		ID: "p-2", BookingID: "b-1", Amount: 84.0, Currency: "EUR",
		PaymentType: model.PaymentTypeBalance, Status: model.PaymentStatusPending,
	}))
	require.NoError(t, f.payments.MarkPaid(ctx, "p-2", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.payments.Create(ctx, &model.Payment{
		ID: "p-3", BookingID: "b-2", Amount: 36.0, Currency: "EUR",
		PaymentType: model.PaymentTypeDeposit, Status: model.PaymentStatusPending,
	}))

	stats, err := f.svc.Dashboard(ctx, "admin-1")
	require.NoError(t, err)

	require.Equal(t, 1, stats.TotalBookingsToday)
	require.Equal(t, 36.0, stats.TotalRevenueMonth)
	require.Equal(t, 1, stats.ActiveInstructors)
	require.Equal(t, 1, stats.PendingPayments)

	_, err = f.svc.Dashboard(ctx, "inst-1")
	require.True(t, model.IsForbidden(err))
}

func TestTodayBookingsEnrichment(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.courses.Create(ctx, &model.Course{
		ID: "c-1", Name: "Private Kitesurf", CourseType: model.CourseTypePrivateKitesurf,
		BasePrice: 120.0, MaxStudents: 2, IsActive: true,
	}))
	require.NoError(t, f.bookings.Create(ctx, &model.Booking{
		ID: "b-1", CustomerID: "cust-1", InstructorID: "inst-1", CourseID: "c-1",
		BookingDate: "2026-09-15", TimeSlot: model.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		Status: model.BookingStatusConfirmed,
	}))

	details, err := f.svc.TodayBookings(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "c-1", details[0].Course.ID)
	require.Equal(t, "cust-1", details[0].Customer.ID)
	require.Equal(t, "inst-1", details[0].Instructor.ID)
}
