package model

import "time"

// TimeSlot is a declared lesson interval, stored as "HH:MM" strings.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// InstructorSchedule holds the declared slots of one instructor for one day
// at one spot. At most one schedule exists per (instructor, date, spot);
// repeated writes for the same key replace the slot list.
type InstructorSchedule struct {
	ID             string       `json:"id"`
	InstructorID   string       `json:"instructor_id"`
	Date           string       `json:"date"` // YYYY-MM-DD
	Spot           SpotLocation `json:"spot"`
	AvailableSlots []TimeSlot   `json:"available_slots"`
	IsAvailable    bool         `json:"is_available"`
	CreatedAt      time.Time    `json:"created_at"`
}

// HasSlot reports whether the schedule declares a slot starting at start.
func (s *InstructorSchedule) HasSlot(start string) bool {
	for _, slot := range s.AvailableSlots {
		if slot.StartTime == start {
			return true
		}
	}
	return false
}
