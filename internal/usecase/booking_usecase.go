package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNoRecentAppointment = errors.New("no recent appointment to show")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSaveAppointment     = errors.New("could not save appointment")
	ErrNoSession           = errors.New("session not found in context")
)

const (
	dateLayout = "2006-01-02"

	// businessIDAttempts bounds retries when a generated business id collides with an existing one.
	businessIDAttempts = 3
)

type BookingUsecase interface {
	BookingPage(ctx context.Context) (*dto.BookingPageResponse, error)
	// Book validates and stores the request for the logged-in user. Invalid input is reported as
	// validation.Errors holding every field problem at once.
	Book(ctx context.Context, req *dto.BookingRequest) (*dto.AppointmentResponse, error)
	RecentAppointment(ctx context.Context) (*dto.AppointmentResponse, error)
	MyAppointments(ctx context.Context) ([]dto.AppointmentResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	location        *time.Location
	now             func() time.Time
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	sessionRepo     repository.SessionRepository
	auditService    service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	location *time.Location,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	sessionRepo repository.SessionRepository,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		location:        location,
		now:             time.Now,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		sessionRepo:     sessionRepo,
		auditService:    auditService,
	}
}

func (u *bookingUsecase) today() time.Time {
	return u.now().In(u.location)
}

// BookingPage lists the doctors offered in the booking form
func (u *bookingUsecase) BookingPage(ctx context.Context) (*dto.BookingPageResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), entity.DoctorFilter{})
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.BookingPageResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Today:   u.today().Format(dateLayout),
	}, nil
}

// Book runs every field check before touching storage, then inserts inside a transaction.
//
// Flow:
// 1. Structural checks from the request tags
// 2. Name, phone, date and doctor checks (each skipped if the field already failed)
// 3. Slot pre-check when all fields are valid
// 4. Insert; the slot unique index decides races the pre-check could not see
// 5. Remember the appointment in the session for the confirmation page
func (u *bookingUsecase) Book(ctx context.Context, req *dto.BookingRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	req.PatientName = strings.TrimSpace(req.PatientName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.AppointmentDate = strings.TrimSpace(req.AppointmentDate)
	req.AppointmentTime = strings.TrimSpace(req.AppointmentTime)
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Notes = strings.TrimSpace(req.Notes)

	errs := u.validator.FormErrors(u.validator.Validate(req))

	if !errs.Has("patient_name") {
		errs.Add(validation.PatientName(req.PatientName))
	}
	if !errs.Has("phone_number") {
		errs.Add(validation.PhoneNumber(req.PhoneNumber))
	}

	var date time.Time
	if !errs.Has("appointment_date") {
		parsed, err := time.Parse(dateLayout, req.AppointmentDate)
		if err != nil {
			errs.Add(validation.NewFieldError("appointment_date", validation.ErrInvalidFormat, validation.MsgInvalidDate))
		} else {
			date = parsed
			errs.Add(validation.AppointmentDate(date, u.today()))
		}
	}

	at, err := parseAppointmentTime(req.AppointmentTime)
	if err != nil {
		errs.Add(err)
	}

	var doctor *entity.Doctor
	if !errs.Has("doctor") {
		doctor, err = u.findDoctor(ctx, req.DoctorID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			errs.Add(validation.NewFieldError("doctor", validation.ErrInvalidChoice, validation.MsgInvalidChoice))
		}
	}

	if len(errs) == 0 {
		taken, err := u.appointmentRepo.SlotTaken(u.db.WithContext(ctx), doctor.ID, date, at, 0)
		if err != nil {
			u.log.Warnf("Failed to check appointment slot: %+v", err)
			return nil, ErrSaveAppointment
		}
		if taken {
			errs.Add(validation.SlotTaken())
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		UserID:          userID,
		DoctorID:        &doctor.ID,
		PatientName:     req.PatientName,
		PhoneNumber:     req.PhoneNumber,
		AppointmentDate: datatypes.Date(date),
		AppointmentTime: at,
		Status:          entity.AppointmentStatusPending,
		Notes:           req.Notes,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := insertAppointment(tx, u.appointmentRepo, appointment); err != nil {
		if isDuplicateKeyError(err, entity.SlotIndexName) {
			return nil, validation.Errors{validation.SlotTaken()}
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, ErrSaveAppointment
	}

	appointment.Doctor = doctor
	response := converter.AppointmentToResponse(appointment)
	u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionAppointmentCreate, "appointment", appointment.BusinessID, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, ErrSaveAppointment
	}

	if sessionID, ok := middleware.GetSessionIDFromContext(ctx); ok {
		if err := u.sessionRepo.SetLastAppointment(ctx, sessionID, appointment.ID); err != nil {
			u.log.Warnf("Failed to remember appointment %d in session: %+v", appointment.ID, err)
		}
	}

	u.log.Infof("Appointment booked: id=%d, unique_id=%s, doctor=%d, date=%s", appointment.ID, appointment.BusinessID, doctor.ID, appointment.DateString())
	return response, nil
}

// RecentAppointment returns the appointment booked last in this session. The pointer is consumed,
// so a second call reports ErrNoRecentAppointment. A failed lookup puts the pointer back.
func (u *bookingUsecase) RecentAppointment(ctx context.Context) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	sessionID, ok := middleware.GetSessionIDFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	appointmentID, ok, err := u.sessionRepo.PopLastAppointment(ctx, sessionID)
	if err != nil {
		u.log.Warnf("Failed to read last appointment from session: %+v", err)
		return nil, err
	}
	if !ok {
		return nil, ErrNoRecentAppointment
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", appointmentID, err)
		if restoreErr := u.sessionRepo.SetLastAppointment(ctx, sessionID, appointmentID); restoreErr != nil {
			u.log.Warnf("Failed to restore last appointment %d in session: %+v", appointmentID, restoreErr)
		}
		return nil, err
	}
	if appointment == nil || appointment.UserID != userID {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

// MyAppointments lists the caller's own appointments, earliest date first
func (u *bookingUsecase) MyAppointments(ctx context.Context) ([]dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	appointments, err := u.appointmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return converter.AppointmentsToResponses(appointments), nil
}

func (u *bookingUsecase) findDoctor(ctx context.Context, raw string) (*entity.Doctor, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), uint(id))
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	return doctor, nil
}

// parseAppointmentTime accepts HH:MM or HH:MM:SS; an empty value means the default time.
func parseAppointmentTime(raw string) (datatypes.Time, error) {
	if raw == "" {
		return entity.DefaultAppointmentTime, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, validation.NewFieldError("appointment_time", validation.ErrInvalidFormat, validation.MsgInvalidTime)
}

// insertAppointment creates the row under a savepoint, regenerating the business id if it
// collides with an existing one.
func insertAppointment(tx *gorm.DB, repo repository.AppointmentRepository, appointment *entity.Appointment) error {
	var err error
	for attempt := 0; attempt < businessIDAttempts; attempt++ {
		err = tx.Transaction(func(sp *gorm.DB) error {
			return repo.Create(sp, appointment)
		})
		name, duplicate := duplicateConstraint(err)
		if !duplicate || !strings.Contains(name, "unique_id") {
			return err
		}
		appointment.BusinessID = ""
	}
	return err
}
