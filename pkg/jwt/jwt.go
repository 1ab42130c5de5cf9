package jwt

import (
	"errors"
	"time"

	"clinic-booking/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "clinic-booking"

type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsStaff  bool      `json:"is_staff"`
	TokenID  string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	config config.SessionConfig
}

func NewJWTService(cfg config.SessionConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateSessionToken signs a login token. The returned token ID is the key the live session is
// stored under, so deleting it revokes the token before it expires.
func (s *JWTService) GenerateSessionToken(userID uuid.UUID, username string, isStaff bool) (string, string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		IsStaff:  isStaff,
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *JWTService) GetSessionExpiry() time.Duration {
	return s.config.TTL
}
