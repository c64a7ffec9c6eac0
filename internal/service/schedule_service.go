package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

type ScheduleService struct {
	users     UserStore
	schedules ScheduleStore
	logger    *zap.Logger
}

func NewScheduleService(users UserStore, schedules ScheduleStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		users:     users,
		schedules: schedules,
		logger:    logger,
	}
}

type ScheduleInput struct {
	InstructorID   string
	Date           string // YYYY-MM-DD
	Spot           model.SpotLocation
	AvailableSlots []model.TimeSlot
}

// Upsert writes an instructor's schedule for one (date, spot). Repeating the
// write for the same key replaces the slot list; the store never holds two
// schedule rows for one key.
func (s *ScheduleService) Upsert(ctx context.Context, actorID string, input ScheduleInput) (*model.InstructorSchedule, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpUpsertSchedule, access.RelNone); err != nil {
		return nil, err
	}

	if !validDate(input.Date) {
		return nil, &model.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if !input.Spot.Valid() {
		return nil, &model.ValidationError{Field: "spot", Msg: "unknown spot"}
	}
	for _, slot := range input.AvailableSlots {
		if !validClock(slot.StartTime) || !validClock(slot.EndTime) {
			return nil, &model.ValidationError{Field: "available_slots", Msg: "slot times must be HH:MM"}
		}
	}

	instructor, err := s.users.GetByID(ctx, input.InstructorID)
	if err != nil {
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	if instructor == nil || instructor.Role != model.RoleInstructor {
		return nil, &model.NotFoundError{Resource: "instructor"}
	}

	schedule := &model.InstructorSchedule{
		ID:             uuid.NewString(),
		InstructorID:   input.InstructorID,
		Date:           input.Date,
		Spot:           input.Spot,
		AvailableSlots: input.AvailableSlots,
		IsAvailable:    true,
	}

	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Info("Instructor schedule written",
		zap.String("schedule_id", schedule.ID),
		zap.String("instructor_id", schedule.InstructorID),
		zap.String("date", schedule.Date),
		zap.String("spot", string(schedule.Spot)),
		zap.Int("slots", len(schedule.AvailableSlots)),
	)

	return schedule, nil
}

// Range returns an instructor's schedules for the inclusive date range.
func (s *ScheduleService) Range(ctx context.Context, actorID, instructorID, from, to string) ([]*model.InstructorSchedule, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpViewSchedules, access.RelNone); err != nil {
		return nil, err
	}

	if !validDate(from) || !validDate(to) {
		return nil, &model.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}

	return s.schedules.ListRange(ctx, instructorID, from, to)
}
