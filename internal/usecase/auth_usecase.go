package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthUsecase interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SessionResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	sessionRepo  repository.SessionRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		auditService: auditService,
		jwtService:   jwtService,
	}
}

// Signup creates the user together with an empty profile and logs the new user in.
func (u *authUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SessionResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	exists, err := u.userRepo.ExistsByUsername(u.db.WithContext(ctx), username)
	if err != nil {
		u.log.Warnf("Failed to check username: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	// Every user owns exactly one profile, created with the account
	profile := &entity.UserProfile{UserID: user.ID}
	if err := u.profileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create user profile: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User registered: id=%s, username=%s", user.ID, user.Username)
	return u.startSession(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := u.userRepo.FindByUsername(u.db.WithContext(ctx), strings.TrimSpace(req.Username))
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.startSession(ctx, user)
}

// Logout revokes the login so the token is rejected even before it expires.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := u.sessionRepo.DeleteLogin(ctx, userID, tokenID); err != nil {
		u.log.Warnf("Failed to delete login session: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) startSession(ctx context.Context, user *entity.User) (*dto.SessionResponse, error) {
	token, tokenID, err := u.jwtService.GenerateSessionToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	ttl := u.jwtService.GetSessionExpiry()
	if err := u.sessionRepo.SaveLogin(ctx, user.ID, tokenID, ttl); err != nil {
		u.log.Warnf("Failed to store login session: %+v", err)
		return nil, err
	}

	return &dto.SessionResponse{
		Token:     token,
		TokenID:   tokenID,
		ExpiresIn: ttl,
		User:      *converter.UserToResponse(user),
	}, nil
}
