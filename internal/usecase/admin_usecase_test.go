package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func staffContext(t *testing.T, db *gorm.DB) context.Context {
	t.Helper()
	staff := testutil.CreateUser(t, db, "admin", "pw", true)
	return middleware.WithIdentity(context.Background(), middleware.Identity{UserID: staff.ID, Username: staff.Username, IsStaff: true})
}

func auditService() service.AuditService {
	return service.NewAuditService(testutil.NewLogger(), repository.NewAuditLogRepository())
}

func createAppointment(t *testing.T, db *gorm.DB, user *entity.User, doctor *entity.Doctor, date string, at datatypes.Time) *entity.Appointment {
	t.Helper()
	day, err := time.Parse(dateLayout, date)
	require.NoError(t, err)

	appointment := &entity.Appointment{
		UserID:          user.ID,
		DoctorID:        &doctor.ID,
		PatientName:     "Alice",
		PhoneNumber:     "123456789012",
		AppointmentDate: datatypes.Date(day),
		AppointmentTime: at,
		Status:          entity.AppointmentStatusPending,
	}
	require.NoError(t, repository.NewAppointmentRepository().Create(db, appointment))
	return appointment
}

func strPtr(s string) *string { return &s }

func TestDoctorUsecase_CreateAndDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Neurology")
	uc := NewDoctorUsecase(db, testutil.NewLogger(), repository.NewDoctorRepository(), repository.NewDepartmentRepository(), auditService())

	fee := decimal.RequireFromString("75.5")
	req := &dto.DoctorRequest{
		Name:            "Strange",
		DepartmentID:    department.ID,
		Specialization:  "Neurosurgery",
		Email:           "strange@clinic.test",
		Phone:           "0123456789",
		ConsultationFee: &fee,
	}

	doctor, err := uc.CreateDoctor(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Strange (Neurosurgery)", doctor.Label)
	assert.Equal(t, entity.DefaultAvailableDays, doctor.AvailableDays)
	assert.Equal(t, "75.50", doctor.ConsultationFee.StringFixed(2))
	require.NotNil(t, doctor.Department)
	assert.Equal(t, "Neurology", doctor.Department.Name)

	req.Name = "Other"
	_, err = uc.CreateDoctor(ctx, req)
	assert.ErrorIs(t, err, ErrDoctorEmailExists)
}

func TestDoctorUsecase_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	uc := NewDoctorUsecase(db, testutil.NewLogger(), repository.NewDoctorRepository(), repository.NewDepartmentRepository(), auditService())

	fee := decimal.RequireFromString("-1")
	_, err := uc.CreateDoctor(context.Background(), &dto.DoctorRequest{
		Name:            "Who",
		DepartmentID:    999,
		Specialization:  "Time",
		Email:           "who@clinic.test",
		Phone:           "123",
		ConsultationFee: &fee,
	})
	require.Error(t, err)

	byField := err.(validation.Errors).ByField()
	assert.Equal(t, []string{validation.MsgContactPhone}, byField["phone"])
	assert.Equal(t, []string{validation.MsgNegative}, byField["consultation_fee"])
	assert.Equal(t, []string{validation.MsgInvalidChoice}, byField["department_id"])
}

func TestDoctorUsecase_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	cardiology := testutil.CreateDepartment(t, db, "Cardiology")
	neurology := testutil.CreateDepartment(t, db, "Neurology")
	testutil.CreateDoctor(t, db, cardiology, "Zhivago", "Cardiac Surgery")
	testutil.CreateDoctor(t, db, cardiology, "Banner", "Radiology")
	testutil.CreateDoctor(t, db, neurology, "Strange", "Neurosurgery")
	uc := NewDoctorUsecase(db, testutil.NewLogger(), repository.NewDoctorRepository(), repository.NewDepartmentRepository(), auditService())
	ctx := context.Background()

	all, err := uc.ListDoctors(ctx, entity.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Banner", all[0].Name)

	byDepartment, err := uc.ListDoctors(ctx, entity.DoctorFilter{DepartmentID: cardiology.ID})
	require.NoError(t, err)
	assert.Len(t, byDepartment, 2)

	bySearch, err := uc.ListDoctors(ctx, entity.DoctorFilter{Search: "surg"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 2)

	bySpecialization, err := uc.ListDoctors(ctx, entity.DoctorFilter{Specialization: "Radiology"})
	require.NoError(t, err)
	require.Len(t, bySpecialization, 1)
	assert.Equal(t, "Banner", bySpecialization[0].Name)
}

func TestDepartmentUsecase_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Pediatrics")
	testutil.CreateDoctor(t, db, department, "Spock", "Child Development")
	uc := NewDepartmentUsecase(db, testutil.NewLogger(), repository.NewDepartmentRepository(), auditService())

	require.NoError(t, uc.DeleteDepartment(ctx, department.ID))

	var doctors int64
	require.NoError(t, db.Model(&entity.Doctor{}).Count(&doctors).Error)
	assert.Zero(t, doctors)

	assert.ErrorIs(t, uc.DeleteDepartment(ctx, department.ID), ErrDepartmentNotFound)

	var audit entity.AuditLog
	require.NoError(t, db.Where("action = ?", entity.AuditActionDepartmentDelete).First(&audit).Error)
	require.NotNil(t, audit.UserID)
}

func TestTreatmentUsecase_CreateAndFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Dermatology")
	uc := NewTreatmentUsecase(db, testutil.NewLogger(), repository.NewTreatmentRepository(), repository.NewDepartmentRepository(), auditService())

	price := decimal.RequireFromString("120")
	inactive := false
	created, err := uc.CreateTreatment(ctx, &dto.TreatmentRequest{
		Name: "Skin Check", Description: "Full body screening", Price: &price, Duration: "45m", DepartmentID: department.ID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "45m0s", created.Duration)

	_, err = uc.CreateTreatment(ctx, &dto.TreatmentRequest{
		Name: "Laser", Description: "Retired", Price: &price, Duration: "1h", DepartmentID: department.ID, IsActive: &inactive,
	})
	require.NoError(t, err)

	all, err := uc.ListTreatments(ctx, entity.TreatmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Laser", all[0].Name)

	active := true
	onlyActive, err := uc.ListTreatments(ctx, entity.TreatmentFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "Skin Check", onlyActive[0].Name)

	_, err = uc.CreateTreatment(ctx, &dto.TreatmentRequest{
		Name: "Bad", Description: "x", Price: &price, Duration: "soon", DepartmentID: department.ID,
	})
	require.Error(t, err)
	assert.True(t, err.(validation.Errors).Has("duration"))
}

func TestAppointmentUsecase_UpdateSlotConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Cardiology")
	doctor := testutil.CreateDoctor(t, db, department, "House", "Diagnostics")
	patient := testutil.CreateUser(t, db, "alice", "pw", false)

	first := createAppointment(t, db, patient, doctor, "2030-01-01", datatypes.NewTime(9, 0, 0, 0))
	second := createAppointment(t, db, patient, doctor, "2030-01-01", datatypes.NewTime(10, 0, 0, 0))

	uc := NewAppointmentUsecase(db, testutil.NewLogger(), repository.NewAppointmentRepository(), repository.NewDoctorRepository(), auditService(), time.UTC)

	_, err := uc.UpdateAppointment(ctx, second.ID, &dto.UpdateAppointmentRequest{AppointmentTime: strPtr("09:00")})
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrSlotTaken)

	// Saving an appointment onto its own slot is not a conflict
	updated, err := uc.UpdateAppointment(ctx, first.ID, &dto.UpdateAppointmentRequest{
		AppointmentTime: strPtr("09:00"),
		Status:          strPtr("confirmed"),
		Notes:           strPtr("Bring records"),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)
	assert.Equal(t, "Bring records", updated.Notes)
	assert.Equal(t, first.BusinessID, updated.UniqueID)

	moved, err := uc.UpdateAppointment(ctx, second.ID, &dto.UpdateAppointmentRequest{AppointmentTime: strPtr("11:30")})
	require.NoError(t, err)
	assert.Equal(t, "11:30", moved.AppointmentTime)
	assert.Equal(t, second.BusinessID, moved.UniqueID)
}

func TestAppointmentUsecase_UpdateValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Cardiology")
	doctor := testutil.CreateDoctor(t, db, department, "House", "Diagnostics")
	patient := testutil.CreateUser(t, db, "alice", "pw", false)
	appointment := createAppointment(t, db, patient, doctor, "2030-01-01", entity.DefaultAppointmentTime)

	uc := NewAppointmentUsecase(db, testutil.NewLogger(), repository.NewAppointmentRepository(), repository.NewDoctorRepository(), auditService(), time.UTC)

	_, err := uc.UpdateAppointment(ctx, appointment.ID, &dto.UpdateAppointmentRequest{
		AppointmentDate: strPtr("2000-01-01"),
		PhoneNumber:     strPtr("12"),
		Status:          strPtr("done"),
	})
	require.Error(t, err)
	errs := err.(validation.Errors)
	assert.True(t, errs.Has("appointment_date"))
	assert.True(t, errs.Has("phone_number"))
	assert.True(t, errs.Has("status"))

	_, err = uc.UpdateAppointment(ctx, 9999, &dto.UpdateAppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentUsecase_ListAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	department := testutil.CreateDepartment(t, db, "Cardiology")
	house := testutil.CreateDoctor(t, db, department, "House", "Diagnostics")
	wilson := testutil.CreateDoctor(t, db, department, "Wilson", "Oncology")
	patient := testutil.CreateUser(t, db, "alice", "pw", false)

	createAppointment(t, db, patient, house, "2030-01-01", datatypes.NewTime(10, 0, 0, 0))
	createAppointment(t, db, patient, house, "2030-01-01", datatypes.NewTime(9, 0, 0, 0))
	last := createAppointment(t, db, patient, wilson, "2030-02-01", datatypes.NewTime(9, 0, 0, 0))

	uc := NewAppointmentUsecase(db, testutil.NewLogger(), repository.NewAppointmentRepository(), repository.NewDoctorRepository(), auditService(), time.UTC)

	all, err := uc.ListAppointments(ctx, entity.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2030-02-01", all[0].AppointmentDate)
	assert.Equal(t, "09:00", all[1].AppointmentTime)
	assert.Equal(t, "10:00", all[2].AppointmentTime)

	byDoctor, err := uc.ListAppointments(ctx, entity.AppointmentFilter{Search: "wils"})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 1)

	require.NoError(t, uc.DeleteAppointment(ctx, last.ID))
	_, err = uc.GetAppointment(ctx, last.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestProfileUsecase_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	testutil.CreateUser(t, db, "alice", "pw", false)
	uc := NewProfileUsecase(db, testutil.NewLogger(), repository.NewProfileRepository(), auditService())

	profiles, err := uc.ListProfiles(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	id := profiles[0].ID

	_, err = uc.UpdateProfile(ctx, id, &dto.UpdateProfileRequest{Phone: strPtr("12ab")})
	require.Error(t, err)
	assert.True(t, err.(validation.Errors).Has("phone"))

	updated, err := uc.UpdateProfile(ctx, id, &dto.UpdateProfileRequest{Phone: strPtr("0123456789"), Address: strPtr(" 1 Main St ")})
	require.NoError(t, err)
	assert.Equal(t, "0123456789", updated.Phone)
	assert.Equal(t, "1 Main St", updated.Address)

	cleared, err := uc.UpdateProfile(ctx, id, &dto.UpdateProfileRequest{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, cleared.Phone)
}

func TestAuditLogUsecase_Pagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	departments := NewDepartmentUsecase(db, testutil.NewLogger(), repository.NewDepartmentRepository(), auditService())
	for _, name := range []string{"A", "B", "C"} {
		_, err := departments.CreateDepartment(ctx, &dto.DepartmentRequest{Name: name})
		require.NoError(t, err)
	}

	uc := NewAuditLogUsecase(db, testutil.NewLogger(), repository.NewAuditLogRepository())
	page, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{Page: entity.Page{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Logs, 2)

	second, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{Page: entity.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, second.Logs, 1)

	got, err := uc.GetAuditLog(ctx, second.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionDepartmentCreate, got.Action)
	assert.Equal(t, "department", got.Entity)
	assert.NotEmpty(t, got.EntityID)
	require.NotNil(t, got.Actor)
	assert.Equal(t, "admin", got.Actor.Username)
	assert.Contains(t, got.Changes, "new_value")

	_, err = uc.GetAuditLog(ctx, 9999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}

func TestAuditLogUsecase_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := staffContext(t, db)
	staffID, _ := middleware.GetUserIDFromContext(ctx)

	departments := NewDepartmentUsecase(db, testutil.NewLogger(), repository.NewDepartmentRepository(), auditService())
	created, err := departments.CreateDepartment(ctx, &dto.DepartmentRequest{Name: "Cardiology"})
	require.NoError(t, err)
	_, err = departments.UpdateDepartment(ctx, created.ID, &dto.DepartmentRequest{Name: "Cardiology", Description: "Heart"})
	require.NoError(t, err)

	uc := NewAuditLogUsecase(db, testutil.NewLogger(), repository.NewAuditLogRepository())

	all, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{Action: "department"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 20, all.Limit)

	updates, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{Action: entity.AuditActionDepartmentUpdate})
	require.NoError(t, err)
	require.Len(t, updates.Logs, 1)
	assert.Equal(t, entity.AuditActionDepartmentUpdate, updates.Logs[0].Action)

	none, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{Action: "doctor"})
	require.NoError(t, err)
	assert.Zero(t, none.Total)
	assert.Empty(t, none.Logs)

	mine, err := uc.GetAllAuditLogs(ctx, entity.AuditLogFilter{UserID: &staffID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
}
