package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/apperror"
	"shawedgym/internal/gym"
	"shawedgym/internal/logger"
	"shawedgym/internal/quota"
)

// notifyTimeout bounds the quota warning lookup and enqueue, which run
// after the admission has committed.
const notifyTimeout = 500 * time.Millisecond

// Admitter is satisfied by *quota.Enforcer.
type Admitter interface {
	Admit(ctx context.Context, gymID int, write func(tx *sqlx.Tx) error) (quota.Admission, error)
}

type GymDirectory interface {
	GetGym(ctx context.Context, id int) (*gym.Gym, error)
}

type Notifier interface {
	SendQuotaWarning(ctx context.Context, to, gymName string, active, limit int) error
}

type Service interface {
	CreateMember(ctx context.Context, gymID int, req CreateMemberRequest) (*Member, error)
	GetMember(ctx context.Context, gymID, id int) (*Member, error)
	ListMembers(ctx context.Context, gymID int, f ListFilter) ([]Member, error)
	UpdateMember(ctx context.Context, gymID, id int, req UpdateMemberRequest) (*Member, error)
	ChangeStatus(ctx context.Context, gymID, id int, status Status) (*Member, error)
	DeleteMember(ctx context.Context, gymID, id int) error
}

type service struct {
	repo     Repository
	quota    Admitter
	gyms     GymDirectory
	notifier Notifier
}

func NewService(repo Repository, quota Admitter, gyms GymDirectory, notifier Notifier) Service {
	return &service{
		repo:     repo,
		quota:    quota,
		gyms:     gyms,
		notifier: notifier,
	}
}

// CreateMember inserts a member. Active members are admitted against the
// gym's plan limit; inactive and suspended ones do not count and skip it.
func (s *service) CreateMember(ctx context.Context, gymID int, req CreateMemberRequest) (*Member, error) {
	m := &Member{
		GymID:     gymID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    req.Status,
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if err := validate("member.create", m); err != nil {
		return nil, err
	}

	if m.Status != StatusActive {
		if err := s.repo.Create(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	adm, err := s.quota.Admit(ctx, gymID, func(tx *sqlx.Tx) error {
		return s.repo.CreateTx(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("member admitted", "gym_id", gymID, "member_id", m.ID, "active", adm.Active, "limit", adm.Limit)
	s.warnIfNearLimit(ctx, adm)
	return m, nil
}

func validate(op string, m *Member) error {
	switch {
	case m.FirstName == "":
		return apperror.Validation(op, "first_name is required")
	case m.LastName == "":
		return apperror.Validation(op, "last_name is required")
	case !m.Status.Valid():
		return apperror.Validation(op, "invalid status")
	}
	return nil
}

func (s *service) warnIfNearLimit(ctx context.Context, adm quota.Admission) {
	if !adm.ShouldWarn() || s.notifier == nil || s.gyms == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	g, err := s.gyms.GetGym(ctx, adm.GymID)
	if err != nil {
		logger.Error("failed to load gym for quota warning", "gym_id", adm.GymID, "error", err)
		return
	}
	if err := s.notifier.SendQuotaWarning(ctx, g.OwnerEmail, g.Name, adm.Active, adm.Limit); err != nil {
		logger.Error("failed to queue quota warning email", "gym_id", adm.GymID, "error", err)
	}
}

func (s *service) GetMember(ctx context.Context, gymID, id int) (*Member, error) {
	return s.repo.Get(ctx, gymID, id)
}

func (s *service) ListMembers(ctx context.Context, gymID int, f ListFilter) ([]Member, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validation("member.list", "invalid status")
	}
	return s.repo.List(ctx, gymID, f)
}

func (s *service) UpdateMember(ctx context.Context, gymID, id int, req UpdateMemberRequest) (*Member, error) {
	for _, name := range []*string{req.FirstName, req.LastName} {
		if name != nil && strings.TrimSpace(*name) == "" {
			return nil, apperror.Validation("member.update", "names must not be empty")
		}
	}
	return s.repo.Update(ctx, gymID, id, req)
}

// ChangeStatus moves a member between statuses. Becoming active counts as a
// new admission and is refused when the plan limit is reached.
func (s *service) ChangeStatus(ctx context.Context, gymID, id int, status Status) (*Member, error) {
	if !status.Valid() {
		return nil, apperror.Validation("member.status", "invalid status")
	}

	current, err := s.repo.Get(ctx, gymID, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	if status != StatusActive {
		return s.repo.SetStatus(ctx, gymID, id, status)
	}

	var updated *Member
	adm, err := s.quota.Admit(ctx, gymID, func(tx *sqlx.Tx) error {
		m, err := s.repo.ActivateTx(ctx, tx, gymID, id)
		updated = m
		return err
	})
	if errors.Is(err, errAlreadyActive) {
		return s.repo.Get(ctx, gymID, id)
	}
	if errors.Is(err, apperror.ErrQuotaExceeded) {
		// A concurrent request may have activated this member, which
		// filled the plan before our count.
		if m, getErr := s.repo.Get(ctx, gymID, id); getErr == nil && m.Status == StatusActive {
			return m, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	logger.Info("member reactivated", "gym_id", gymID, "member_id", id, "active", adm.Active, "limit", adm.Limit)
	s.warnIfNearLimit(ctx, adm)
	return updated, nil
}

func (s *service) DeleteMember(ctx context.Context, gymID, id int) error {
	return s.repo.Delete(ctx, gymID, id)
}
