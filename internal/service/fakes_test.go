package service

import (
	"context"
	"fmt"
	"time"

	"github.com/northsea/kiteschool/internal/model"
)

// In-memory stores backing the service tests. They mirror the repository
// semantics: nil for missing records, Conflict on unique violations.

type fakeUserStore struct {
	users map[string]*model.User
	order []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return &model.ConflictError{Reason: "email already registered"}
		}
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	f.order = append(f.order, user.ID)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.users[id])
	}
	return out, nil
}

func (f *fakeUserStore) ListActiveInstructors(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, id := range f.order {
		u := f.users[id]
		if u.Role == model.RoleInstructor && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) CountActiveInstructors(ctx context.Context) (int, error) {
	instructors, _ := f.ListActiveInstructors(ctx)
	return len(instructors), nil
}

func (f *fakeUserStore) UpdateRole(_ context.Context, id string, role model.UserRole) error {
	u, ok := f.users[id]
	if !ok {
		return &model.NotFoundError{Resource: "user"}
	}
	u.Role = role
	return nil
}

type fakeCourseStore struct {
	courses map[string]*model.Course
	order   []string
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[string]*model.Course{}}
}

func (f *fakeCourseStore) Create(_ context.Context, course *model.Course) error {
	course.CreatedAt = time.Now()
	f.courses[course.ID] = course
	f.order = append(f.order, course.ID)
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id string) (*model.Course, error) {
	return f.courses[id], nil
}

func (f *fakeCourseStore) ListActive(_ context.Context) ([]*model.Course, error) {
	var out []*model.Course
	for _, id := range f.order {
		if c := f.courses[id]; c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) ListByType(_ context.Context, courseType model.CourseType) ([]*model.Course, error) {
	var out []*model.Course
	for _, id := range f.order {
		if c := f.courses[id]; c.IsActive && c.CourseType == courseType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) ListBySpot(_ context.Context, spot model.SpotLocation) ([]*model.Course, error) {
	var out []*model.Course
	for _, id := range f.order {
		if c := f.courses[id]; c.IsActive && c.OfferedAt(spot) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) Deactivate(_ context.Context, id string) error {
	c, ok := f.courses[id]
	if !ok {
		return &model.NotFoundError{Resource: "course"}
	}
	c.IsActive = false
	return nil
}

type fakeScheduleStore struct {
	schedules map[string]*model.InstructorSchedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{schedules: map[string]*model.InstructorSchedule{}}
}

func scheduleKey(instructorID, date string, spot model.SpotLocation) string {
	return instructorID + "|" + date + "|" + string(spot)
}

func (f *fakeScheduleStore) Upsert(_ context.Context, schedule *model.InstructorSchedule) error {
	key := scheduleKey(schedule.InstructorID, schedule.Date, schedule.Spot)
	if existing, ok := f.schedules[key]; ok {
		existing.AvailableSlots = schedule.AvailableSlots
		existing.IsAvailable = true
		schedule.ID = existing.ID
		schedule.CreatedAt = existing.CreatedAt
		return nil
	}
	schedule.CreatedAt = time.Now()
	f.schedules[key] = schedule
	return nil
}

func (f *fakeScheduleStore) GetAvailable(_ context.Context, instructorID, date string, spot model.SpotLocation) (*model.InstructorSchedule, error) {
	schedule, ok := f.schedules[scheduleKey(instructorID, date, spot)]
	if !ok || !schedule.IsAvailable {
		return nil, nil
	}
	return schedule, nil
}

func (f *fakeScheduleStore) ListRange(_ context.Context, instructorID, from, to string) ([]*model.InstructorSchedule, error) {
	var out []*model.InstructorSchedule
	for _, s := range f.schedules {
		if s.InstructorID == instructorID && s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBookingStore struct {
	bookings map[string]*model.Booking
	order    []string
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]*model.Booking{}}
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	existing, _ := f.FindActiveAtSlot(ctx, booking.InstructorID, booking.BookingDate, booking.TimeSlot.StartTime)
	if existing != nil {
		return &model.ConflictError{Reason: "instructor slot already booked"}
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings[booking.ID] = booking
	f.order = append(f.order, booking.ID)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingStore) FindActiveAtSlot(_ context.Context, instructorID, date, startTime string) (*model.Booking, error) {
	for _, id := range f.order {
		b := f.bookings[id]
		if b.InstructorID == instructorID && b.BookingDate == date && b.TimeSlot.StartTime == startTime && b.Status.Active() {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) ListByCustomer(_ context.Context, customerID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, id := range f.order {
		if b := f.bookings[id]; b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByInstructor(_ context.Context, instructorID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, id := range f.order {
		if b := f.bookings[id]; b.InstructorID == instructorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListAll(_ context.Context) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.bookings[id])
	}
	return out, nil
}

func (f *fakeBookingStore) ListActiveOnDate(_ context.Context, date string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, id := range f.order {
		if b := f.bookings[id]; b.BookingDate == date && b.Status.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) CountActiveOnDate(ctx context.Context, date string) (int, error) {
	active, _ := f.ListActiveOnDate(ctx, date)
	return len(active), nil
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return &model.NotFoundError{Resource: "booking"}
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingStore) UpdateStatuses(_ context.Context, id string, status model.BookingStatus, paymentStatus model.PaymentStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return &model.NotFoundError{Resource: "booking"}
	}
	b.Status = status
	b.PaymentStatus = paymentStatus
	b.UpdatedAt = time.Now()
	return nil
}

type fakePaymentStore struct {
	payments map[string]*model.Payment
	order    []string
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: map[string]*model.Payment{}}
}

func (f *fakePaymentStore) Create(_ context.Context, payment *model.Payment) error {
	payment.CreatedAt = time.Now()
	f.payments[payment.ID] = payment
	f.order = append(f.order, payment.ID)
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id string) (*model.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentStore) ListByBooking(_ context.Context, bookingID string) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, id := range f.order {
		if p := f.payments[id]; p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) MarkPaid(_ context.Context, id string, paidAt time.Time) error {
	p, ok := f.payments[id]
	if !ok {
		return &model.NotFoundError{Resource: "payment"}
	}
	p.Status = model.PaymentStatusPaid
	p.PaidAt = &paidAt
	return nil
}

func (f *fakePaymentStore) SumPaidByBooking(_ context.Context, bookingID string) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.BookingID == bookingID && p.Status == model.PaymentStatusPaid {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentStore) SumPaidSince(_ context.Context, since time.Time) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.Status == model.PaymentStatusPaid && p.PaidAt != nil && !p.PaidAt.Before(since) {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentStore) CountPending(_ context.Context) (int, error) {
	count := 0
	for _, p := range f.payments {
		if p.Status == model.PaymentStatusPending {
			count++
		}
	}
	return count, nil
}

// fakeGateway settles intents on demand. Intents listed in settled report
// Settled from RetrieveIntent.
type fakeGateway struct {
	nextID      int
	settled     map[string]bool
	createErr   error
	retrieveErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{settled: map[string]bool{}}
}

func (f *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.GatewayIntent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("pi_%d", f.nextID)
	return &model.GatewayIntent{
		ID:           id,
		ClientSecret: id + "_secret",
	}, nil
}

func (f *fakeGateway) RetrieveIntent(_ context.Context, id string) (*model.GatewayIntent, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return &model.GatewayIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Settled:      f.settled[id],
	}, nil
}
