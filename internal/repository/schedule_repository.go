package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/northsea/kiteschool/internal/model"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, instructor_id, date, spot, available_slots, is_available, created_at`

func scanSchedule(row pgx.Row) (*model.InstructorSchedule, error) {
	var schedule model.InstructorSchedule
	err := row.Scan(
		&schedule.ID,
		&schedule.InstructorID,
		&schedule.Date,
		&schedule.Spot,
		&schedule.AvailableSlots,
		&schedule.IsAvailable,
		&schedule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Upsert writes a schedule for (instructor, date, spot). A second write for
// the same key replaces the slot list instead of creating a duplicate row;
// the existing row keeps its id.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *model.InstructorSchedule) error {
	query := `
		INSERT INTO instructor_schedules (id, instructor_id, date, spot, available_slots, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (instructor_id, date, spot)
		DO UPDATE SET available_slots = EXCLUDED.available_slots, is_available = true
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		schedule.ID,
		schedule.InstructorID,
		schedule.Date,
		schedule.Spot,
		schedule.AvailableSlots,
		schedule.IsAvailable,
	).Scan(&schedule.ID, &schedule.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}

	return nil
}

// GetAvailable fetches the schedule for (instructor, date, spot) when it is
// marked available, nil otherwise.
func (r *ScheduleRepository) GetAvailable(ctx context.Context, instructorID, date string, spot model.SpotLocation) (*model.InstructorSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM instructor_schedules
		WHERE instructor_id = $1 AND date = $2 AND spot = $3 AND is_available = true
	`

	schedule, err := scanSchedule(r.pool.QueryRow(ctx, query, instructorID, date, spot))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get available schedule: %w", err)
	}

	return schedule, nil
}

// ListRange returns an instructor's schedules with dates in [from, to].
// Dates are ISO strings, so lexicographic range matches chronological order.
func (r *ScheduleRepository) ListRange(ctx context.Context, instructorID, from, to string) ([]*model.InstructorSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM instructor_schedules
		WHERE instructor_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, instructorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list schedules in range: %w", err)
	}
	defer rows.Close()

	var schedules []*model.InstructorSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}
