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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileUsecase interface {
	ListProfiles(ctx context.Context, search string) ([]dto.ProfileResponse, error)
	GetProfile(ctx context.Context, id uint) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, id uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	profileRepo  repository.ProfileRepository
	auditService service.AuditService
}

func NewProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	auditService service.AuditService,
) ProfileUsecase {
	return &profileUsecase{
		db:           db,
		log:          log,
		profileRepo:  profileRepo,
		auditService: auditService,
	}
}

func (u *profileUsecase) ListProfiles(ctx context.Context, search string) ([]dto.ProfileResponse, error) {
	profiles, err := u.profileRepo.FindAll(u.db.WithContext(ctx), search)
	if err != nil {
		u.log.Warnf("Failed to find profiles: %+v", err)
		return nil, err
	}
	return converter.ProfilesToResponses(profiles), nil
}

func (u *profileUsecase) GetProfile(ctx context.Context, id uint) (*dto.ProfileResponse, error) {
	profile, err := u.profileRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find profile %d: %+v", id, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return converter.ProfileToResponse(profile), nil
}

// UpdateProfile changes phone and address. An empty phone clears it; otherwise it must be 10 to 15 digits.
func (u *profileUsecase) UpdateProfile(ctx context.Context, id uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.profileRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find profile %d: %+v", id, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	old := converter.ProfileToResponse(profile)

	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" {
			if err := validation.ContactPhone("phone", phone); err != nil {
				return nil, validation.Errors{err.(*validation.FieldError)}
			}
		}
		profile.Phone = phone
	}
	if req.Address != nil {
		profile.Address = strings.TrimSpace(*req.Address)
	}

	if err := u.profileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update profile %d: %+v", id, err)
		return nil, err
	}

	response := converter.ProfileToResponse(profile)
	u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionProfileUpdate, "user_profile", strconv.FormatUint(uint64(id), 10), old, response)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}
