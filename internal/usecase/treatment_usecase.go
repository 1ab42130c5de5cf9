package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrTreatmentNotFound = errors.New("treatment not found")

const msgInvalidDuration = "Enter a valid duration."

type TreatmentUsecase interface {
	ListTreatments(ctx context.Context, filter entity.TreatmentFilter) ([]dto.TreatmentResponse, error)
	GetTreatment(ctx context.Context, id uint) (*dto.TreatmentResponse, error)
	CreateTreatment(ctx context.Context, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error)
	UpdateTreatment(ctx context.Context, id uint, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error)
	DeleteTreatment(ctx context.Context, id uint) error
}

type treatmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	treatmentRepo  repository.TreatmentRepository
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
}

func NewTreatmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	treatmentRepo repository.TreatmentRepository,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
) TreatmentUsecase {
	return &treatmentUsecase{
		db:             db,
		log:            log,
		treatmentRepo:  treatmentRepo,
		departmentRepo: departmentRepo,
		auditService:   auditService,
	}
}

// ListTreatments returns treatments ordered by name, inactive ones included unless filtered out.
func (u *treatmentUsecase) ListTreatments(ctx context.Context, filter entity.TreatmentFilter) ([]dto.TreatmentResponse, error) {
	treatments, err := u.treatmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find treatments: %+v", err)
		return nil, err
	}
	return converter.TreatmentsToResponses(treatments), nil
}

func (u *treatmentUsecase) GetTreatment(ctx context.Context, id uint) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %d: %+v", id, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) CreateTreatment(ctx context.Context, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	treatment := &entity.Treatment{}
	if err := u.apply(tx, treatment, req); err != nil {
		return nil, err
	}

	if err := u.treatmentRepo.Create(tx, treatment); err != nil {
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, err
	}

	response := converter.TreatmentToResponse(treatment)
	u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionTreatmentCreate, "treatment", strconv.FormatUint(uint64(treatment.ID), 10), response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *treatmentUsecase) UpdateTreatment(ctx context.Context, id uint, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	treatment, err := u.treatmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %d: %+v", id, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	old := converter.TreatmentToResponse(treatment)
	if err := u.apply(tx, treatment, req); err != nil {
		return nil, err
	}

	if err := u.treatmentRepo.Update(tx, treatment); err != nil {
		u.log.Warnf("Failed to update treatment %d: %+v", id, err)
		return nil, err
	}

	response := converter.TreatmentToResponse(treatment)
	u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionTreatmentUpdate, "treatment", strconv.FormatUint(uint64(id), 10), old, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *treatmentUsecase) DeleteTreatment(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	treatment, err := u.treatmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %d: %+v", id, err)
		return err
	}
	if treatment == nil {
		return ErrTreatmentNotFound
	}

	if _, err := u.treatmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete treatment %d: %+v", id, err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actorID(ctx), entity.AuditActionTreatmentDelete, "treatment", strconv.FormatUint(uint64(id), 10), converter.TreatmentToResponse(treatment))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *treatmentUsecase) apply(tx *gorm.DB, treatment *entity.Treatment, req *dto.TreatmentRequest) error {
	var errs validation.Errors

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add(validation.Required("name"))
	}
	if req.Price == nil {
		errs.Add(validation.Required("price"))
	} else {
		errs.Add(validation.NonNegative("price", *req.Price))
	}

	duration, err := time.ParseDuration(strings.TrimSpace(req.Duration))
	if err != nil || duration <= 0 {
		errs.Add(validation.NewFieldError("duration", validation.ErrInvalidFormat, msgInvalidDuration))
	}

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

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	} else if treatment.IsActive != nil {
		active = *treatment.IsActive
	}

	treatment.Name = name
	treatment.Description = strings.TrimSpace(req.Description)
	treatment.Price = req.Price.Round(2)
	treatment.Duration = duration
	treatment.DepartmentID = department.ID
	treatment.Department = department
	treatment.IsActive = &active
	return nil
}
