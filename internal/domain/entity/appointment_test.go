package entity

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var businessIDPattern = regexp.MustCompile(`^APT-\d{4}-[0-9A-F]{6}$`)

func TestNewBusinessID_Format(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		id := NewBusinessID(now)
		require.Regexp(t, businessIDPattern, id)
		assert.Equal(t, "APT-2026-", id[:9])
	}
}

func TestEnsureBusinessID_GeneratedOnce(t *testing.T) {
	a := &Appointment{PatientName: "Alice"}

	require.NoError(t, a.BeforeSave(nil))
	first := a.BusinessID
	require.Regexp(t, businessIDPattern, first)

	require.NoError(t, a.BeforeSave(nil))
	a.EnsureBusinessID(time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, first, a.BusinessID)
}

func TestAppointment_Formatting(t *testing.T) {
	a := &Appointment{
		PatientName:     "Alice",
		AppointmentDate: datatypes.Date(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		AppointmentTime: DefaultAppointmentTime,
		Doctor:          &Doctor{Name: "House", Specialization: "Diagnostics"},
	}

	assert.Equal(t, "2030-01-01", a.DateString())
	assert.Equal(t, "09:00", a.TimeString())
	assert.Equal(t, "Alice with Dr. House on 2030-01-01", a.String())
	assert.Equal(t, "House (Diagnostics)", a.Doctor.Label())
}

func TestAppointmentStatus_Valid(t *testing.T) {
	assert.True(t, AppointmentStatusPending.Valid())
	assert.True(t, AppointmentStatusConfirmed.Valid())
	assert.True(t, AppointmentStatusCancelled.Valid())
	assert.False(t, AppointmentStatus("done").Valid())
}

func TestPage_Normalize(t *testing.T) {
	p := Page{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = Page{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 200, p.Offset())
}
