package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/config"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
)

// UserClaims are the JWT claims issued at login. The user ID travels in the
// registered Subject claim.
type UserClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and password recovery.
type AuthService struct {
	userRepo *repository.UserRepository
	mailer   Mailer
	cfg      config.AuthConfig
	baseURL  string
}

// NewAuthService creates a new AuthService with the provided dependencies.
func NewAuthService(userRepo *repository.UserRepository, mailer Mailer, cfg config.AuthConfig, baseURL string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		baseURL:  baseURL,
	}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns apperrors.ErrUsernameTaken / ErrEmailTaken on unique collisions.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (*model.User, error) {
	taken, err := s.userRepo.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a signed token. The login value may
// be a username or an email address.
func (s *AuthService) Login(_ context.Context, req request.LoginRequest) (string, *model.User, error) {
	user, err := s.userRepo.GetUserByLogin(req.Username)
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID, user.Username, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// GetUser retrieves the profile of an authenticated user.
func (s *AuthService) GetUser(userID string) (*model.User, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken parses and validates a bearer token and confirms the subject
// still exists, returning the user ID.
// Returns apperrors.ErrInvalidToken / ErrUserNotFound on failure.
func (s *AuthService) VerifyToken(tokenStr string) (string, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.ErrInvalidToken
	}

	// The account may have been deleted after the token was issued.
	if _, err := s.userRepo.GetUser(claims.Subject); err != nil {
		return "", err
	}

	return claims.Subject, nil
}

// ForgotPassword generates a short-lived reset token for the account behind
// email, stores it on the user row, and hands the reset link to the mailer.
// An unknown email is not an error; callers respond identically either way
// so the endpoint does not leak which addresses exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.issueToken(user.ID, user.Username, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	expires := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, &expires); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?reset_token=%s", s.baseURL, token)
	name := user.FirstName + " " + user.LastName

	if err := s.mailer.SendPasswordReset(user.Email, name, resetLink); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	return nil
}

// ResetPassword validates a reset token and replaces the user's password.
// The token must match the one most recently stored for the user and still
// be within its expiry; it is cleared on success so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return apperrors.ErrInvalidResetToken
	}

	user, err := s.userRepo.GetUser(claims.Subject)
	if err != nil {
		return err
	}

	if user.ResetToken == "" || user.ResetToken != tokenStr {
		return apperrors.ErrInvalidResetToken
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperrors.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	return s.userRepo.SetResetToken(ctx, user.ID, "", nil)
}

func (s *AuthService) issueToken(userID, username string, ttl time.Duration) (string, error) {
	claims := &UserClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
