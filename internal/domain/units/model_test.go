package units

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockcore/internal/core/id"
)

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusRetired.IsTerminal())
	assert.True(t, StatusLost.IsTerminal())

	for _, s := range []Status{
		StatusAvailable, StatusAssigned, StatusInTransit, StatusInUse,
		StatusMaintenance, StatusDamaged, StatusReturned, StatusReserved,
	} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

func TestStatus_CanTransfer(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransfer())
	assert.True(t, StatusReturned.CanTransfer())

	for _, s := range []Status{
		StatusAssigned, StatusInTransit, StatusInUse, StatusMaintenance,
		StatusDamaged, StatusLost, StatusRetired, StatusReserved,
	} {
		assert.False(t, s.CanTransfer(), string(s))
	}
}

func TestStatus_CanReturn(t *testing.T) {
	assert.True(t, StatusAssigned.CanReturn())
	assert.True(t, StatusInUse.CanReturn())

	for _, s := range []Status{
		StatusAvailable, StatusInTransit, StatusMaintenance, StatusDamaged,
		StatusLost, StatusRetired, StatusReturned, StatusReserved,
	} {
		assert.False(t, s.CanReturn(), string(s))
	}
}

func TestStatusForReturnCondition(t *testing.T) {
	tests := []struct {
		condition Condition
		want      Status
	}{
		{ConditionNew, StatusAvailable},
		{ConditionGood, StatusAvailable},
		{ConditionFair, StatusAvailable},
		{ConditionPoor, StatusReturned},
		{ConditionDamaged, StatusDamaged},
		{ConditionUnusable, StatusDamaged},
	}

	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForReturnCondition(tt.condition))
		})
	}
}

func TestInferEventType(t *testing.T) {
	damaged := ConditionDamaged
	unusable := ConditionUnusable
	good := ConditionGood

	tests := []struct {
		name      string
		from      Status
		to        Status
		condition *Condition
		want      EventType
	}{
		{"into maintenance", StatusAvailable, StatusMaintenance, nil, EventMaintenanceStart},
		{"out of maintenance", StatusMaintenance, StatusAvailable, nil, EventMaintenanceEnd},
		{"damaged", StatusAvailable, StatusDamaged, nil, EventDamaged},
		{"repaired", StatusDamaged, StatusAvailable, nil, EventRepaired},
		{"lost", StatusAssigned, StatusLost, nil, EventLost},
		{"retired", StatusAvailable, StatusRetired, nil, EventRetired},
		{"generic", StatusAvailable, StatusReserved, nil, EventStatusChanged},
		{"damaged to maintenance is maintenance start", StatusDamaged, StatusMaintenance, nil, EventMaintenanceStart},
		{"damage condition overrides maintenance", StatusAvailable, StatusMaintenance, &damaged, EventDamaged},
		{"unusable condition on generic change", StatusAvailable, StatusReserved, &unusable, EventDamaged},
		{"damage condition never overrides retirement", StatusAvailable, StatusRetired, &damaged, EventRetired},
		{"good condition changes nothing", StatusAvailable, StatusMaintenance, &good, EventMaintenanceStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferEventType(tt.from, tt.to, tt.condition))
		})
	}
}

func TestStatus_RequiresLocation(t *testing.T) {
	for _, s := range []Status{StatusAvailable, StatusAssigned, StatusInUse} {
		assert.True(t, s.RequiresLocation(), string(s))
	}

	for _, s := range []Status{
		StatusInTransit, StatusMaintenance, StatusDamaged, StatusLost,
		StatusRetired, StatusReturned, StatusReserved,
	} {
		assert.False(t, s.RequiresLocation(), string(s))
	}
}

func TestUnit_Holder(t *testing.T) {
	u := &Unit{}
	assert.Nil(t, u.Holder(), "warehouse-held unit has no holder")

	empID := id.New()
	u.AssignedEmployeeID = &empID
	holder := u.Holder()
	assert.NotNil(t, holder)
	assert.Equal(t, "employee:"+empID.String(), *holder)

	u.AssignedEmployeeID = nil
	projID := id.New()
	u.AssignedProjectID = &projID
	holder = u.Holder()
	assert.NotNil(t, holder)
	assert.Equal(t, "project:"+projID.String(), *holder)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []Status{
		StatusAvailable, StatusAssigned, StatusInTransit, StatusInUse,
		StatusMaintenance, StatusDamaged, StatusLost, StatusRetired,
		StatusReturned, StatusReserved,
	} {
		assert.True(t, IsValidStatus(s), string(s))
	}
	assert.False(t, IsValidStatus(Status("BROKEN")))
}
