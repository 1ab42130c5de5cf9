package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppointmentUsecase is the staff view over every user's appointments.
type AppointmentUsecase interface {
	ListAppointments(ctx context.Context, filter entity.AppointmentFilter) ([]dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id uint) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
	location        *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	location *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		location:        location,
		now:             time.Now,
	}
}

// ListAppointments orders by date descending, then time ascending
func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter entity.AppointmentFilter) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateAppointment applies the fields present in req. Moving an appointment onto a slot that is
// already held yields a validation.Errors containing the slot error; the business id never changes.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	old := converter.AppointmentToResponse(appointment)

	var errs validation.Errors
	slotChanged := false

	if req.PatientName != nil {
		name := strings.TrimSpace(*req.PatientName)
		errs.Add(validation.PatientName(name))
		appointment.PatientName = name
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		errs.Add(validation.ContactPhone("phone_number", phone))
		appointment.PhoneNumber = phone
	}
	if req.AppointmentDate != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(*req.AppointmentDate))
		if err != nil {
			errs.Add(validation.NewFieldError("appointment_date", validation.ErrInvalidFormat, validation.MsgInvalidDate))
		} else if !date.Equal(appointment.Date()) {
			// Rescheduling follows the booking rule; untouched past dates stay valid.
			errs.Add(validation.AppointmentDate(date, u.now().In(u.location)))
			appointment.AppointmentDate = datatypes.Date(date)
			slotChanged = true
		}
	}
	if req.AppointmentTime != nil {
		at, err := parseAppointmentTime(strings.TrimSpace(*req.AppointmentTime))
		if err != nil {
			errs.Add(err)
		} else if at != appointment.AppointmentTime {
			appointment.AppointmentTime = at
			slotChanged = true
		}
	}
	if req.DoctorID != nil && (appointment.DoctorID == nil || *req.DoctorID != *appointment.DoctorID) {
		doctor, err := u.doctorRepo.FindByID(tx, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %d: %+v", *req.DoctorID, err)
			return nil, err
		}
		if doctor == nil {
			errs.Add(validation.NewFieldError("doctor_id", validation.ErrInvalidChoice, validation.MsgInvalidChoice))
		} else {
			appointment.DoctorID = &doctor.ID
			appointment.Doctor = doctor
			slotChanged = true
		}
	}
	if req.Status != nil {
		status := entity.AppointmentStatus(*req.Status)
		if !status.Valid() {
			errs.Add(validation.NewFieldError("status", validation.ErrInvalidChoice, validation.MsgInvalidChoice))
		}
		appointment.Status = status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if len(errs) == 0 && slotChanged && appointment.DoctorID != nil {
		taken, err := u.appointmentRepo.SlotTaken(tx, *appointment.DoctorID, appointment.Date(), appointment.AppointmentTime, appointment.ID)
		if err != nil {
			u.log.Warnf("Failed to check appointment slot: %+v", err)
			return nil, err
		}
		if taken {
			errs.Add(validation.SlotTaken())
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	err = tx.Transaction(func(sp *gorm.DB) error {
		return u.appointmentRepo.Update(sp, appointment)
	})
	if err != nil {
		if isDuplicateKeyError(err, entity.SlotIndexName) {
			return nil, validation.Errors{validation.SlotTaken()}
		}
		u.log.Warnf("Failed to update appointment %d: %+v", id, err)
		return nil, err
	}

	response := converter.AppointmentToResponse(appointment)
	u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionAppointmentUpdate, "appointment", appointment.BusinessID, old, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if _, err := u.appointmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete appointment %d: %+v", id, err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actorID(ctx), entity.AuditActionAppointmentDelete, "appointment", appointment.BusinessID, converter.AppointmentToResponse(appointment))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
