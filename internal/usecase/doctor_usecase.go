package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorEmailExists = errors.New("doctor email already exists")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, filter entity.DoctorFilter) ([]dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uint) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id uint, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, id uint) error
}

type doctorUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	doctorRepo     repository.DoctorRepository
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:             db,
		log:            log,
		doctorRepo:     doctorRepo,
		departmentRepo: departmentRepo,
		auditService:   auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, filter entity.DoctorFilter) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uint) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{}
	if err := u.apply(tx, doctor, req); err != nil {
		return nil, err
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionDoctorCreate, "doctor", strconv.FormatUint(uint64(doctor.ID), 10), response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%d, name=%s", doctor.ID, doctor.Name)
	return response, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id uint, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	old := converter.DoctorToResponse(doctor)
	if err := u.apply(tx, doctor, req); err != nil {
		return nil, err
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to update doctor %d: %+v", id, err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionDoctorUpdate, "doctor", strconv.FormatUint(uint64(id), 10), old, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// DeleteDoctor removes the doctor together with their appointments.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor %d: %+v", id, err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actorID(ctx), entity.AuditActionDoctorDelete, "doctor", strconv.FormatUint(uint64(id), 10), converter.DoctorToResponse(doctor))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// apply validates req and copies it onto doctor, loading the department for the response.
func (u *doctorUsecase) apply(tx *gorm.DB, doctor *entity.Doctor, req *dto.DoctorRequest) error {
	var errs validation.Errors

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add(validation.Required("name"))
	}
	specialization := strings.TrimSpace(req.Specialization)
	if specialization == "" {
		errs.Add(validation.Required("specialization"))
	}
	phone := strings.TrimSpace(req.Phone)
	errs.Add(validation.ContactPhone("phone", phone))

	fee := decimal.Zero
	if req.ConsultationFee != nil {
		fee = *req.ConsultationFee
	}
	errs.Add(validation.NonNegative("consultation_fee", fee))

	department, err := u.departmentRepo.FindByID(tx, req.DepartmentID)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", req.DepartmentID, err)
		return err
	}
	if department == nil {
		errs.Add(validation.NewFieldError("department_id", validation.ErrInvalidChoice, validation.MsgInvalidChoice))
	}

	if err := errs.Err(); err != nil {
		return err
	}

	availableDays := strings.TrimSpace(req.AvailableDays)
	if availableDays == "" {
		availableDays = entity.DefaultAvailableDays
	}

	doctor.Name = name
	doctor.DepartmentID = department.ID
	doctor.Department = department
	doctor.Specialization = specialization
	doctor.Experience = req.Experience
	doctor.Email = strings.TrimSpace(req.Email)
	doctor.Phone = phone
	doctor.AvailableDays = availableDays
	doctor.ConsultationFee = fee.Round(2)
	return nil
}
