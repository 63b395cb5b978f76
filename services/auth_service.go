package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/rotation-players/utils"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleOrganizer = "organizer"
	tokenTTL      = 24 * time.Hour
)

var errNoOrganizerHash = errors.New("organizer password hash is not configured")

type AuthService interface {
	// Login проверяет пароль организатора и выдаёт JWT.
	Login(ctx context.Context, password string) (string, time.Time, error)
}

type authService struct {
	passwordHash string
	jwtSecret    []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, jwtSecret string) AuthService {
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, errNoOrganizerHash)
	}
	if password == "" || !utils.CheckPasswordHash(password, s.passwordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":  RoleOrganizer,
		"role": RoleOrganizer,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}
