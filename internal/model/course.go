package model

import "time"

type CourseType string

const (
	CourseTypePrivateKitesurf     CourseType = "private_kitesurf"
	CourseTypeSemiPrivateKitesurf CourseType = "semi_private_kitesurf"
	CourseTypeEfoilCoaching       CourseType = "efoil_coaching"
	CourseTypeEfoilTest           CourseType = "efoil_test"
)

func (t CourseType) Valid() bool {
	switch t {
	case CourseTypePrivateKitesurf, CourseTypeSemiPrivateKitesurf, CourseTypeEfoilCoaching, CourseTypeEfoilTest:
		return true
	}
	return false
}

type SpotLocation string

const (
	SpotSylt SpotLocation = "sylt"
	SpotRomo SpotLocation = "romo"
)

func (s SpotLocation) Valid() bool {
	return s == SpotSylt || s == SpotRomo
}

// Course is a bookable product. Immutable after creation except for
// deactivation.
type Course struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	CourseType         CourseType     `json:"course_type"`
	Description        string         `json:"description"`
	DurationHours      float64        `json:"duration_hours"`
	MaxStudents        int            `json:"max_students"`
	BasePrice          float64        `json:"base_price"` // EUR
	Spots              []SpotLocation `json:"spots"`
	SkillLevelRequired string         `json:"skill_level_required"` // beginner, intermediate, advanced
	EquipmentIncluded  []string       `json:"equipment_included"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
}

// OfferedAt reports whether the course runs at the given spot.
func (c *Course) OfferedAt(spot SpotLocation) bool {
	for _, s := range c.Spots {
		if s == spot {
			return true
		}
	}
	return false
}
