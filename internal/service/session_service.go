package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type profileState interface {
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile models.UserProfile) error
	Reset(ctx context.Context) error
}

// SessionConfig defines token issuance settings.
type SessionConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// SessionService owns the single local profile and its session tokens.
type SessionService struct {
	state     profileState
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
	now       func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(state profileState, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &SessionService{state: state, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login stores the profile and issues a session token for it.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.ClassName = strings.TrimSpace(req.ClassName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and class are required")
	}

	profile := models.UserProfile{Name: req.Name, ClassName: req.ClassName}
	if err := s.state.SaveProfile(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile")
	}

	issuedAt := s.now().UTC()
	token, err := s.issue(profile, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("profile signed in", zap.String("class", profile.ClassName))
	return &models.SessionResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Expiry.Seconds()),
		IssuedAt:  issuedAt,
		Profile:   profile,
	}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *SessionService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Profile returns the stored profile or ErrNoProfile.
func (s *SessionService) Profile(ctx context.Context) (*models.UserProfile, error) {
	profile, err := s.state.LoadProfile(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if profile == nil {
		return nil, appErrors.ErrNoProfile
	}
	return profile, nil
}

// Logout wipes every stored key of the profile.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.state.Reset(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset state")
	}
	s.logger.Info("profile signed out and state cleared")
	return nil
}

func (s *SessionService) issue(profile models.UserProfile, issuedAt time.Time) (string, error) {
	claims := &models.SessionClaims{
		Name:      profile.Name,
		ClassName: profile.ClassName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   profile.Name,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
