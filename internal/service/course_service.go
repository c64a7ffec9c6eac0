package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

type CourseService struct {
	users   UserStore
	courses CourseStore
	logger  *zap.Logger
}

func NewCourseService(users UserStore, courses CourseStore, logger *zap.Logger) *CourseService {
	return &CourseService{
		users:   users,
		courses: courses,
		logger:  logger,
	}
}

type CourseInput struct {
	Name               string
	CourseType         model.CourseType
	Description        string
	DurationHours      float64
	MaxStudents        int
	BasePrice          float64
	Spots              []model.SpotLocation
	SkillLevelRequired string
	EquipmentIncluded  []string
}

// List returns all active courses.
func (s *CourseService) List(ctx context.Context) ([]*model.Course, error) {
	return s.courses.ListActive(ctx)
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, &model.NotFoundError{Resource: "course"}
	}
	return course, nil
}

// ListByType returns active courses of one type.
func (s *CourseService) ListByType(ctx context.Context, courseType model.CourseType) ([]*model.Course, error) {
	if !courseType.Valid() {
		return nil, &model.ValidationError{Field: "course_type", Msg: "unknown course type"}
	}
	return s.courses.ListByType(ctx, courseType)
}

// ListBySpot returns active courses offered at one spot.
func (s *CourseService) ListBySpot(ctx context.Context, spot model.SpotLocation) ([]*model.Course, error) {
	if !spot.Valid() {
		return nil, &model.ValidationError{Field: "spot", Msg: "unknown spot"}
	}
	return s.courses.ListBySpot(ctx, spot)
}

// Create adds a new course. Admin/owner only.
func (s *CourseService) Create(ctx context.Context, actorID string, input CourseInput) (*model.Course, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpCreateCourse, access.RelNone); err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, &model.ValidationError{Field: "name", Msg: "name is required"}
	}
	if !input.CourseType.Valid() {
		return nil, &model.ValidationError{Field: "course_type", Msg: "unknown course type"}
	}
	if input.MaxStudents < 1 {
		return nil, &model.ValidationError{Field: "max_students", Msg: "must be at least 1"}
	}
	if input.BasePrice <= 0 {
		return nil, &model.ValidationError{Field: "base_price", Msg: "must be positive"}
	}
	if len(input.Spots) == 0 {
		return nil, &model.ValidationError{Field: "spots", Msg: "at least one spot is required"}
	}
	for _, spot := range input.Spots {
		if !spot.Valid() {
			return nil, &model.ValidationError{Field: "spots", Msg: "unknown spot"}
		}
	}
	if input.SkillLevelRequired == "" {
		input.SkillLevelRequired = "beginner"
	}

	course := &model.Course{
		ID:                 uuid.NewString(),
		Name:               input.Name,
		CourseType:         input.CourseType,
		Description:        input.Description,
		DurationHours:      input.DurationHours,
		MaxStudents:        input.MaxStudents,
		BasePrice:          input.BasePrice,
		Spots:              input.Spots,
		SkillLevelRequired: input.SkillLevelRequired,
		EquipmentIncluded:  input.EquipmentIncluded,
		IsActive:           true,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("Course created",
		zap.String("course_id", course.ID),
		zap.String("course_type", string(course.CourseType)),
		zap.Float64("base_price", course.BasePrice),
	)

	return course, nil
}

// Deactivate retires a course. Courses are immutable after creation apart
// from this.
func (s *CourseService) Deactivate(ctx context.Context, actorID, courseID string) error {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	if err := authorize(actor, access.OpDeactivateCourse, access.RelNone); err != nil {
		return err
	}

	if err := s.courses.Deactivate(ctx, courseID); err != nil {
		return err
	}

	s.logger.Info("Course deactivated", zap.String("course_id", courseID))

	return nil
}
