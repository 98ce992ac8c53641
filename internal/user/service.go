package user

import (
	"context"
	"errors"
	"strings"

	"shawedgym/internal/apperror"
	"shawedgym/internal/auth"
	"shawedgym/internal/gym"
	"shawedgym/internal/logger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Provisioner is satisfied by gym.Service.
type Provisioner interface {
	AutoProvisionOnFirstAdminLogin(ctx context.Context, ownerID int) (*gym.Provisioned, error)
}

// Scope is satisfied by *scope.Resolver.
type Scope interface {
	Resolve(ctx context.Context, p auth.Principal) ([]int, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetMe(ctx context.Context, p auth.Principal) (*MeResponse, error)
	CreateStaff(ctx context.Context, gymID int, req StaffRequest) (*User, error)
}

type service struct {
	repo   Repository
	tokens *auth.Provider
	gyms   Provisioner
	scope  Scope
}

func NewService(repo Repository, tokens *auth.Provider, gyms Provisioner, scope Scope) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		gyms:   gyms,
		scope:  scope,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) respond(u *User, g *gym.Provisioned) (*AuthResponse, error) {
	pair, err := s.tokens.IssueTokens(u.Principal())
	if err != nil {
		return nil, apperror.Internal("user.tokens", err)
	}
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *u,
		Gym:          g,
	}, nil
}

// Register creates a gym owner. The first gym is provisioned on first login.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("user.register", "name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("user.register", err)
	}

	u, err := s.repo.Create(ctx, name, normalizeEmail(req.Email), hash, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	logger.Info("owner registered", "user_id", u.ID)
	return s.respond(u, nil)
}

// Login authenticates the user. For an owner it also makes sure a gym exists;
// if that fails the login fails and no tokens are issued.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	var g *gym.Provisioned
	if u.Role == auth.RoleAdmin {
		g, err = s.gyms.AutoProvisionOnFirstAdminLogin(ctx, u.ID)
		if err != nil {
			logger.Error("auto-provisioning failed during login", "user_id", u.ID, "error", err)
			return nil, err
		}
	}

	return s.respond(u, g)
}

// Refresh reissues tokens from the stored user so a changed role takes effect.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	_, p, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.FindByID(ctx, p.UserID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return s.respond(u, nil)
}

func (s *service) GetMe(ctx context.Context, p auth.Principal) (*MeResponse, error) {
	u, err := s.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	ids, err := s.scope.Resolve(ctx, u.Principal())
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: *u, GymIDs: ids}, nil
}

func (s *service) CreateStaff(ctx context.Context, gymID int, req StaffRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("user.staff", "name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("user.staff", err)
	}

	u, err := s.repo.CreateStaff(ctx, gymID, name, normalizeEmail(req.Email), hash)
	if err != nil {
		return nil, err
	}

	logger.Info("staff user created", "user_id", u.ID, "gym_id", gymID)
	return u, nil
}
