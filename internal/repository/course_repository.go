package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/northsea/kiteschool/internal/model"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, name, course_type, description, duration_hours, max_students, base_price, spots, skill_level_required, equipment_included, is_active, created_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	var course model.Course
	var spots []string
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.CourseType,
		&course.Description,
		&course.DurationHours,
		&course.MaxStudents,
		&course.BasePrice,
		&spots,
		&course.SkillLevelRequired,
		&course.EquipmentIncluded,
		&course.IsActive,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	course.Spots = make([]model.SpotLocation, 0, len(spots))
	for _, s := range spots {
		course.Spots = append(course.Spots, model.SpotLocation(s))
	}
	return &course, nil
}

func spotStrings(spots []model.SpotLocation) []string {
	out := make([]string, 0, len(spots))
	for _, s := range spots {
		out = append(out, string(s))
	}
	return out
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (id, name, course_type, description, duration_hours, max_students, base_price, spots, skill_level_required, equipment_included, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		course.ID,
		course.Name,
		course.CourseType,
		course.Description,
		course.DurationHours,
		course.MaxStudents,
		course.BasePrice,
		spotStrings(course.Spots),
		course.SkillLevelRequired,
		course.EquipmentIncluded,
		course.IsActive,
	).Scan(&course.CreatedAt)

	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID fetches a course by id, nil when missing.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return course, nil
}

// ListActive returns all active courses.
func (r *CourseRepository) ListActive(ctx context.Context) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = true ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// ListByType returns active courses of the given type.
func (r *CourseRepository) ListByType(ctx context.Context, courseType model.CourseType) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_type = $1 AND is_active = true ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, courseType)
	if err != nil {
		return nil, fmt.Errorf("list courses by type: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// ListBySpot returns active courses offered at the given spot.
func (r *CourseRepository) ListBySpot(ctx context.Context, spot model.SpotLocation) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE $1 = ANY(spots) AND is_active = true ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, string(spot))
	if err != nil {
		return nil, fmt.Errorf("list courses by spot: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// Deactivate marks a course inactive. Courses are never deleted or edited
// after creation.
func (r *CourseRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE courses SET is_active = false WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "course"}
	}

	return nil
}

func collectCourses(rows pgx.Rows) ([]*model.Course, error) {
	var courses []*model.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}
