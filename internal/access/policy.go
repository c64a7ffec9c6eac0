// Package access holds the authorization policy as an explicit permission
// table mapping (role, operation, ownership relation) to allow/deny. Services
// evaluate it once per operation instead of inlining role checks per route.
package access

import "github.com/northsea/kiteschool/internal/model"

type Operation string

const (
	OpCreateCourse     Operation = "course.create"
	OpDeactivateCourse Operation = "course.deactivate"

	OpUpsertSchedule Operation = "schedule.upsert"
	OpViewSchedules  Operation = "schedule.view"

	OpCreateBooking       Operation = "booking.create"
	OpViewBooking         Operation = "booking.view"
	OpUpdateBookingStatus Operation = "booking.update_status"

	OpInitiatePayment Operation = "payment.initiate"
	OpConfirmPayment  Operation = "payment.confirm"
	OpViewPayments    Operation = "payment.view"

	OpListUsers           Operation = "admin.list_users"
	OpListInstructors     Operation = "admin.list_instructors"
	OpUpdateRole          Operation = "admin.update_role"
	OpGrantPrivilegedRole Operation = "admin.grant_privileged_role"
	OpViewDashboard       Operation = "admin.dashboard"
)

// Relation is the ownership relation between the acting user and the entity
// the operation touches.
type Relation string

const (
	// RelNone means the actor holds no ownership relation to the entity.
	RelNone Relation = "none"
	// RelBookingCustomer means the actor is the booking's customer.
	RelBookingCustomer Relation = "booking_customer"
	// RelBookingInstructor means the actor is the booking's assigned instructor.
	RelBookingInstructor Relation = "booking_instructor"
)

// relAny marks a table entry that allows the operation regardless of the
// actor's relation to the entity.
const relAny Relation = "*"

var table = map[Operation]map[model.UserRole][]Relation{
	OpCreateCourse: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpDeactivateCourse: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpUpsertSchedule: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpViewSchedules: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpCreateBooking: {
		model.RoleCustomer:   {relAny},
		model.RoleInstructor: {relAny},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpViewBooking: {
		model.RoleCustomer:   {RelBookingCustomer},
		model.RoleInstructor: {RelBookingInstructor},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpUpdateBookingStatus: {
		model.RoleCustomer:   {RelBookingCustomer},
		model.RoleInstructor: {RelBookingInstructor},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpInitiatePayment: {
		model.RoleCustomer:   {RelBookingCustomer},
		model.RoleInstructor: {RelBookingCustomer},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpConfirmPayment: {
		model.RoleCustomer:   {RelBookingCustomer},
		model.RoleInstructor: {RelBookingCustomer},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpViewPayments: {
		model.RoleCustomer:   {RelBookingCustomer},
		model.RoleInstructor: {RelBookingCustomer},
		model.RoleAdmin:      {relAny},
		model.RoleOwner:      {relAny},
	},
	OpListUsers: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpListInstructors: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpUpdateRole: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
	OpGrantPrivilegedRole: {
		model.RoleOwner: {relAny},
	},
	OpViewDashboard: {
		model.RoleAdmin: {relAny},
		model.RoleOwner: {relAny},
	},
}

// Allowed reports whether a user with the given role may perform op while
// holding the given relation to the target entity.
func Allowed(role model.UserRole, op Operation, rel Relation) bool {
	accepted, ok := table[op][role]
	if !ok {
		return false
	}
	for _, a := range accepted {
		if a == relAny || a == rel {
			return true
		}
	}
	return false
}

// BookingRelation computes the actor's strongest relation to a booking.
func BookingRelation(userID string, b *model.Booking) Relation {
	if b == nil {
		return RelNone
	}
	if b.CustomerID == userID {
		return RelBookingCustomer
	}
	if b.InstructorID != "" && b.InstructorID == userID {
		return RelBookingInstructor
	}
	return RelNone
}
