// Package auth issues and validates the session tokens that gate every
// surface except login and registration.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

// Claims carries the session identity inside the JWT
type Claims struct {
	UserID    string     `json:"user_id"`
	ProfileID string     `json:"profile_id"`
	Role      model.Role `json:"role"`
	Email     string     `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	profiles repository.ProfileRepository
	hasher   security.PasswordHasher
	cfg      config.JWTConfig
}

func NewService(profiles repository.ProfileRepository, hasher security.PasswordHasher, cfg config.JWTConfig) *Service {
	return &Service{
		profiles: profiles,
		hasher:   hasher,
		cfg:      cfg,
	}
}

// RegisterInput is the payload for new account creation
type RegisterInput struct {
	Email            string           `json:"email" binding:"required,email"`
	Password         string           `json:"password" binding:"required,min=8"`
	FullName         string           `json:"full_name" binding:"required"`
	Role             model.Role       `json:"role" binding:"required,role"`
	Phone            *string          `json:"phone,omitempty"`
	OrganizationName *string          `json:"organization_name,omitempty"`
	Address          *string          `json:"address,omitempty"`
	BloodType        *model.BloodType `json:"blood_type,omitempty" binding:"omitempty,bloodtype"`
}

// Register creates a profile with a hashed password and returns a session token
func (s *Service) Register(ctx context.Context, input *RegisterInput) (*model.Profile, string, error) {
	if !input.Role.Valid() {
		return nil, "", apperrors.BadRequest(fmt.Sprintf("unrecognized role %q", input.Role), nil)
	}
	if input.BloodType != nil && !input.BloodType.Valid() {
		return nil, "", apperrors.BadRequest(fmt.Sprintf("unrecognized blood type %q", *input.BloodType), nil)
	}
	if existing, _ := s.profiles.GetByEmail(ctx, input.Email); existing != nil {
		return nil, "", apperrors.Conflict("an account with this email already exists", nil)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", apperrors.BadRequest("invalid password", err)
	}

	profile := &model.Profile{
		UserID:           uuid.New(),
		Role:             input.Role,
		FullName:         input.FullName,
		Email:            input.Email,
		PasswordHash:     hash,
		Phone:            input.Phone,
		OrganizationName: input.OrganizationName,
		Address:          input.Address,
		BloodType:        input.BloodType,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Login verifies credentials and returns a session token
func (s *Service) Login(ctx context.Context, email, password string) (*model.Profile, string, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.Unauthorized(err)
	}
	if err := s.hasher.Compare(profile.PasswordHash, password); err != nil {
		return nil, "", apperrors.Unauthorized(err)
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// ValidateToken parses and verifies a session token
func (s *Service) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized(nil)
	}
	return claims, nil
}

// CurrentProfile resolves the profile behind validated claims
func (s *Service) CurrentProfile(ctx context.Context, claims *Claims) (*model.Profile, error) {
	id, err := uuid.Parse(claims.ProfileID)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return s.profiles.Get(ctx, id)
}

func (s *Service) issueToken(profile *model.Profile) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    profile.UserID.String(),
		ProfileID: profile.ID.String(),
		Role:      profile.Role,
		Email:     profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
