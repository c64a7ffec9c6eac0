package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

type BookingService struct {
	users     UserStore
	courses   CourseStore
	schedules ScheduleStore
	bookings  BookingStore
	payments  PaymentStore
	logger    *zap.Logger
}

func NewBookingService(
	users UserStore,
	courses CourseStore,
	schedules ScheduleStore,
	bookings BookingStore,
	payments PaymentStore,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		users:     users,
		courses:   courses,
		schedules: schedules,
		bookings:  bookings,
		payments:  payments,
		logger:    logger,
	}
}

type AvailabilityInput struct {
	CourseID         string
	Date             string // YYYY-MM-DD
	Spot             model.SpotLocation
	NumberOfStudents int
}

// SlotMatch is one free (instructor, slot) pair.
type SlotMatch struct {
	InstructorID   string         `json:"instructor_id"`
	InstructorName string         `json:"instructor_name"`
	TimeSlot       model.TimeSlot `json:"time_slot"`
}

type Availability struct {
	Available bool          `json:"available"`
	Slots     []SlotMatch   `json:"available_slots"`
	Course    *model.Course `json:"course"`
}

type BookingInput struct {
	CourseID         string
	Date             string // YYYY-MM-DD
	TimeSlot         model.TimeSlot
	Spot             model.SpotLocation
	NumberOfStudents int
	StudentNames     []string
	StudentDetails   map[string]any
	Notes            string
}

// CheckAvailability enumerates active instructors and collects every
// declared slot on (date, spot) that no pending/confirmed booking occupies.
// A slot counts as free iff a schedule exists for the key, the schedule is
// marked available, and no conflicting booking starts at the same time.
func (s *BookingService) CheckAvailability(ctx context.Context, input AvailabilityInput) (*Availability, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, &model.NotFoundError{Resource: "course"}
	}

	if !validDate(input.Date) {
		return nil, &model.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if !input.Spot.Valid() {
		return nil, &model.ValidationError{Field: "spot", Msg: "unknown spot"}
	}

	instructors, err := s.users.ListActiveInstructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}

	var matches []SlotMatch
	for _, instructor := range instructors {
		schedule, err := s.schedules.GetAvailable(ctx, instructor.ID, input.Date, input.Spot)
		if err != nil {
			return nil, fmt.Errorf("get schedule: %w", err)
		}
		if schedule == nil {
			continue
		}

		for _, slot := range schedule.AvailableSlots {
			existing, err := s.bookings.FindActiveAtSlot(ctx, instructor.ID, input.Date, slot.StartTime)
			if err != nil {
				return nil, fmt.Errorf("check slot conflict: %w", err)
			}
			if existing != nil {
				continue
			}

			matches = append(matches, SlotMatch{
				InstructorID:   instructor.ID,
				InstructorName: instructor.FirstName + " " + instructor.LastName,
				TimeSlot:       slot,
			})
		}
	}

	return &Availability{
		Available: len(matches) > 0,
		Slots:     matches,
		Course:    course,
	}, nil
}

// matchInstructor finds the first active instructor with the requested slot
// declared, available and unoccupied. First match in enumeration order wins;
// there is no load balancing.
func (s *BookingService) matchInstructor(ctx context.Context, date string, spot model.SpotLocation, slot model.TimeSlot) (string, error) {
	instructors, err := s.users.ListActiveInstructors(ctx)
	if err != nil {
		return "", fmt.Errorf("list instructors: %w", err)
	}

	for _, instructor := range instructors {
		schedule, err := s.schedules.GetAvailable(ctx, instructor.ID, date, spot)
		if err != nil {
			return "", fmt.Errorf("get schedule: %w", err)
		}
		if schedule == nil || !schedule.HasSlot(slot.StartTime) {
			continue
		}

		existing, err := s.bookings.FindActiveAtSlot(ctx, instructor.ID, date, slot.StartTime)
		if err != nil {
			return "", fmt.Errorf("check slot conflict: %w", err)
		}
		if existing != nil {
			continue
		}

		return instructor.ID, nil
	}

	return "", nil
}

// Create validates a booking request, prices it, assigns an instructor and
// persists the booking as pending/pending. The matched slot stays on the
// instructor's schedule; conflict detection at read time plus the store's
// unique slot index guard against double-booking.
func (s *BookingService) Create(ctx context.Context, actorID string, input BookingInput) (*model.Booking, error) {
	customer, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, &model.NotFoundError{Resource: "customer"}
	}
	if err := authorize(customer, access.OpCreateBooking, access.RelNone); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, &model.NotFoundError{Resource: "course"}
	}

	if !validDate(input.Date) {
		return nil, &model.ValidationError{Field: "booking_date", Msg: "expected YYYY-MM-DD"}
	}
	if !validClock(input.TimeSlot.StartTime) || !validClock(input.TimeSlot.EndTime) {
		return nil, &model.ValidationError{Field: "time_slot", Msg: "slot times must be HH:MM"}
	}
	if !input.Spot.Valid() {
		return nil, &model.ValidationError{Field: "spot", Msg: "unknown spot"}
	}
	if input.NumberOfStudents < 1 {
		return nil, &model.ValidationError{Field: "number_of_students", Msg: "must be at least 1"}
	}

	totalPrice := course.BasePrice * float64(input.NumberOfStudents)
	depositAmount := totalPrice * 0.3 // flat 30% deposit, no per-course override

	instructorID, err := s.matchInstructor(ctx, input.Date, input.Spot, input.TimeSlot)
	if err != nil {
		return nil, err
	}
	if instructorID == "" {
		return nil, &model.NoAvailabilityError{Date: input.Date, Spot: input.Spot}
	}

	booking := &model.Booking{
		ID:               uuid.NewString(),
		CustomerID:       customer.ID,
		InstructorID:     instructorID,
		CourseID:         course.ID,
		BookingDate:      input.Date,
		TimeSlot:         input.TimeSlot,
		Spot:             input.Spot,
		NumberOfStudents: input.NumberOfStudents,
		StudentNames:     input.StudentNames,
		StudentDetails:   input.StudentDetails,
		TotalPrice:       totalPrice,
		DepositAmount:    depositAmount,
		Status:           model.BookingStatusPending,
		PaymentStatus:    model.PaymentStatusPending,
		Notes:            input.Notes,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("customer_id", booking.CustomerID),
		zap.String("instructor_id", booking.InstructorID),
		zap.String("date", booking.BookingDate),
		zap.String("start_time", booking.TimeSlot.StartTime),
		zap.Float64("total_price", booking.TotalPrice),
	)

	return booking, nil
}

// MyBookings returns the actor's bookings, scoped by role: customers see
// their own, instructors see assigned ones, admins and owners see all.
// Each booking is enriched with its related records.
func (s *BookingService) MyBookings(ctx context.Context, actorID string) ([]*model.BookingDetails, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	var bookings []*model.Booking
	switch actor.Role {
	case model.RoleCustomer:
		bookings, err = s.bookings.ListByCustomer(ctx, actor.ID)
	case model.RoleInstructor:
		bookings, err = s.bookings.ListByInstructor(ctx, actor.ID)
	default:
		bookings, err = s.bookings.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	details := make([]*model.BookingDetails, 0, len(bookings))
	for _, booking := range bookings {
		d, err := s.enrich(ctx, booking)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, nil
}

// Get returns one booking with related records. Customers and instructors
// may only see bookings they belong to.
func (s *BookingService) Get(ctx context.Context, actorID, bookingID string) (*model.BookingDetails, error) {
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
	if err := authorize(actor, access.OpViewBooking, access.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}

	return s.enrich(ctx, booking)
}

// UpdateStatus sets a booking's status. Admin/owner may set any value; the
// booking's customer or assigned instructor may update their own booking.
func (s *BookingService) UpdateStatus(ctx context.Context, actorID, bookingID string, status model.BookingStatus) error {
	if !status.Valid() {
		return &model.ValidationError{Field: "status", Msg: "unknown booking status"}
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return &model.NotFoundError{Resource: "booking"}
	}

	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	if err := authorize(actor, access.OpUpdateBookingStatus, access.BookingRelation(actor.ID, booking)); err != nil {
		return err
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return err
	}

	s.logger.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID),
		zap.String("status", string(status)),
	)

	return nil
}

// enrich attaches course, customer, instructor and payments to a booking.
// Missing related records are left nil rather than failing the read.
func (s *BookingService) enrich(ctx context.Context, booking *model.Booking) (*model.BookingDetails, error) {
	course, err := s.courses.GetByID(ctx, booking.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	customer, err := s.users.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	var instructor *model.User
	if booking.InstructorID != "" {
		instructor, err = s.users.GetByID(ctx, booking.InstructorID)
		if err != nil {
			return nil, fmt.Errorf("get instructor: %w", err)
		}
	}

	payments, err := s.payments.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return &model.BookingDetails{
		Booking:    booking,
		Course:     course,
		Customer:   customer,
		Instructor: instructor,
		Payments:   payments,
	}, nil
}
