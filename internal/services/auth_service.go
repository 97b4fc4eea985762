package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

// dummyHash is compared against when the name is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("not-a-real-password")
	return h
})

type authService struct {
	repo      repositories.Repository
	sessions  *auth.SessionManager
	landing   auth.LandingTable
	logger    *slog.Logger
	validator *validator.Validator
	metrics   *metrics.Metrics
}

func NewAuthService(repo repositories.Repository, sessions *auth.SessionManager, landing auth.LandingTable, logger *slog.Logger, validator *validator.Validator, m *metrics.Metrics) AuthService {
	return &authService{
		repo:      repo,
		sessions:  sessions,
		landing:   landing,
		logger:    logger,
		validator: validator,
		metrics:   m,
	}
}

// VerifyCredentials returns the staff record for a matching name/password pair.
func (s *authService) VerifyCredentials(ctx context.Context, name, password string) (*models.Staff, error) {
	staff, err := s.repo.Staff().GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			auth.CheckPassword(dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}

	if !auth.CheckPassword(staff.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return staff, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	staff, err := s.VerifyCredentials(ctx, req.Name, req.Password)
	s.metrics.ObserveLogin(err == nil)
	if err != nil {
		s.logger.Info("Login rejected", "name", req.Name, "error", err)
		return nil, err
	}

	token, expiresAt, err := s.sessions.Issue(auth.Identity{ID: staff.ID, Role: staff.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("Login succeeded", "user_id", staff.ID, "role", staff.Role)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Landing:   s.landing.PathFor(staff.Role),
		User:      staff,
	}, nil
}

func (s *authService) VerifySession(token string) (*auth.Identity, error) {
	return s.sessions.Verify(token)
}

func (s *authService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
