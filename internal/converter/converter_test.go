package converter

import (
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAppointmentToResponse(t *testing.T) {
	userID := uuid.New()
	appointment := &entity.Appointment{
		ID:              7,
		UserID:          userID,
		PatientName:     "Alice",
		PhoneNumber:     "123456789012",
		AppointmentDate: datatypes.Date(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		AppointmentTime: datatypes.NewTime(14, 30, 0, 0),
		Status:          entity.AppointmentStatusPending,
		BusinessID:      "APT-2026-ABC123",
		User:            &entity.User{ID: userID, Username: "alice"},
		Doctor: &entity.Doctor{
			ID:              3,
			Name:            "House",
			Specialization:  "Diagnostics",
			ConsultationFee: decimal.RequireFromString("150.00"),
			Department:      &entity.Department{ID: 1, Name: "Internal"},
		},
	}

	res := AppointmentToResponse(appointment)
	require.NotNil(t, res)
	assert.Equal(t, "APT-2026-ABC123", res.UniqueID)
	assert.Equal(t, "2030-01-01", res.AppointmentDate)
	assert.Equal(t, "14:30", res.AppointmentTime)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "alice", res.Username)
	require.NotNil(t, res.Doctor)
	assert.Equal(t, "House (Diagnostics)", res.Doctor.Label)
	assert.Equal(t, "Internal", res.Doctor.Department.Name)
	assert.Equal(t, "Appointment with Dr. House on 2030-01-01", res.Summary())
}

func TestTreatmentToResponse_DefaultsActive(t *testing.T) {
	res := TreatmentToResponse(&entity.Treatment{Name: "X-Ray", Duration: 45 * time.Minute})
	assert.True(t, res.IsActive)
	assert.Equal(t, "45m0s", res.Duration)
	assert.Nil(t, res.Department)
}

func TestNilEntities(t *testing.T) {
	assert.Nil(t, UserToResponse(nil))
	assert.Nil(t, DoctorToResponse(nil))
	assert.Nil(t, AppointmentToResponse(nil))
	assert.Nil(t, AuditLogToResponse(nil))
}
