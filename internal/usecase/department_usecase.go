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

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDepartmentNotFound = errors.New("department not found")

type DepartmentUsecase interface {
	ListDepartments(ctx context.Context, search string) ([]dto.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id uint) (*dto.DepartmentResponse, error)
	CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, id uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	// DeleteDepartment also removes the department's doctors and treatments.
	DeleteDepartment(ctx context.Context, id uint) error
}

type departmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
}

func NewDepartmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
) DepartmentUsecase {
	return &departmentUsecase{
		db:             db,
		log:            log,
		departmentRepo: departmentRepo,
		auditService:   auditService,
	}
}

func (u *departmentUsecase) ListDepartments(ctx context.Context, search string) ([]dto.DepartmentResponse, error) {
	departments, err := u.departmentRepo.FindAll(u.db.WithContext(ctx), search)
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}
	return converter.DepartmentsToResponses(departments), nil
}

func (u *departmentUsecase) GetDepartment(ctx context.Context, id uint) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation.Errors{validation.Required("name")}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department := &entity.Department{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := u.departmentRepo.Create(tx, department); err != nil {
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	response := converter.DepartmentToResponse(department)
	u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionDepartmentCreate, "department", strconv.FormatUint(uint64(department.ID), 10), response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *departmentUsecase) UpdateDepartment(ctx context.Context, id uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation.Errors{validation.Required("name")}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	old := converter.DepartmentToResponse(department)
	department.Name = name
	department.Description = strings.TrimSpace(req.Description)

	if err := u.departmentRepo.Update(tx, department); err != nil {
		u.log.Warnf("Failed to update department %d: %+v", id, err)
		return nil, err
	}

	response := converter.DepartmentToResponse(department)
	u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionDepartmentUpdate, "department", strconv.FormatUint(uint64(id), 10), old, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *departmentUsecase) DeleteDepartment(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	if _, err := u.departmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete department %d: %+v", id, err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actorID(ctx), entity.AuditActionDepartmentDelete, "department", strconv.FormatUint(uint64(id), 10), converter.DepartmentToResponse(department))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
