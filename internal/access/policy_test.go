package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northsea/kiteschool/internal/model"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name string
		role model.UserRole
		op   Operation
		rel  Relation
		want bool
	}{
		{"customer creates booking", model.RoleCustomer, OpCreateBooking, RelNone, true},
		{"customer views own booking", model.RoleCustomer, OpViewBooking, RelBookingCustomer, true},
		{"customer views foreign booking", model.RoleCustomer, OpViewBooking, RelNone, false},
		{"instructor views assigned booking", model.RoleInstructor, OpViewBooking, RelBookingInstructor, true},
		{"instructor views foreign booking", model.RoleInstructor, OpViewBooking, RelBookingCustomer, false},
		{"admin views any booking", model.RoleAdmin, OpViewBooking, RelNone, true},
		{"customer creates course", model.RoleCustomer, OpCreateCourse, RelNone, false},
		{"instructor upserts schedule", model.RoleInstructor, OpUpsertSchedule, RelNone, false},
		{"owner upserts schedule", model.RoleOwner, OpUpsertSchedule, RelNone, true},
		{"customer pays own booking", model.RoleCustomer, OpInitiatePayment, RelBookingCustomer, true},
		{"customer pays foreign booking", model.RoleCustomer, OpInitiatePayment, RelNone, false},
		{"admin lists users", model.RoleAdmin, OpListUsers, RelNone, true},
		{"instructor lists users", model.RoleInstructor, OpListUsers, RelNone, false},
		{"admin updates role", model.RoleAdmin, OpUpdateRole, RelNone, true},
		{"admin grants privileged role", model.RoleAdmin, OpGrantPrivilegedRole, RelNone, false},
		{"owner grants privileged role", model.RoleOwner, OpGrantPrivilegedRole, RelNone, true},
		{"instructor opens dashboard", model.RoleInstructor, OpViewDashboard, RelNone, false},
		{"unknown role", model.UserRole("ghost"), OpCreateBooking, RelNone, false},
		{"unknown operation", model.RoleOwner, Operation("course.clone"), RelNone, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Allowed(tc.role, tc.op, tc.rel))
		})
	}
}

func TestBookingRelation(t *testing.T) {
	booking := &model.Booking{CustomerID: "cust-1", InstructorID: "inst-1"}

	require.Equal(t, RelBookingCustomer, BookingRelation("cust-1", booking))
	require.Equal(t, RelBookingInstructor, BookingRelation("inst-1", booking))
	require.Equal(t, RelNone, BookingRelation("someone-else", booking))
	require.Equal(t, RelNone, BookingRelation("cust-1", nil))

	// An unassigned booking never yields the instructor relation, even for
	// an actor with an empty id.
	unassigned := &model.Booking{CustomerID: "cust-1"}
	require.Equal(t, RelNone, BookingRelation("", unassigned))
}
