package gym

import (
	"context"
	"strings"
	"time"

	"shawedgym/internal/apperror"
	"shawedgym/internal/db"
	"shawedgym/internal/logger"
	"shawedgym/internal/metrics"
)

// notifyTimeout bounds queueing an email after a committed provisioning.
const notifyTimeout = 500 * time.Millisecond

// Notifier queues owner-facing emails. Failures are logged, never returned
// to the caller of a committed operation.
type Notifier interface {
	SendGymReady(ctx context.Context, to, gymName, planName string) error
}

type Service interface {
	ProvisionGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Provisioned, error)
	AutoProvisionOnFirstAdminLogin(ctx context.Context, ownerID int) (*Provisioned, error)
	ListGyms(ctx context.Context, ids []int) ([]Gym, error)
	GetGym(ctx context.Context, id int) (*Gym, error)
	UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error)
	DeleteGym(ctx context.Context, id int) error
}

type service struct {
	repo        Repository
	notifier    Notifier
	defaultPlan string
}

func NewService(repo Repository, notifier Notifier, defaultPlan string) Service {
	return &service{
		repo:        repo,
		notifier:    notifier,
		defaultPlan: defaultPlan,
	}
}

func (s *service) ProvisionGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Provisioned, error) {
	draft := Draft{
		Name:       strings.TrimSpace(req.Name),
		OwnerName:  strings.TrimSpace(req.OwnerName),
		OwnerEmail: strings.TrimSpace(req.OwnerEmail),
		Phone:      req.Phone,
		Address:    req.Address,
		PlanName:   strings.TrimSpace(req.PlanName),
	}
	if draft.Name == "" {
		return nil, apperror.Validation("gym.provision", "name is required")
	}
	if draft.PlanName == "" {
		draft.PlanName = s.defaultPlan
	}

	p, err := s.repo.Provision(ctx, ownerID, draft)
	if err != nil {
		return nil, err
	}

	s.provisioned(ctx, p, ownerID, TriggerExplicit)
	return p, nil
}

// AutoProvisionOnFirstAdminLogin returns the owner's most recent gym, or
// provisions one on the default plan when the owner has none yet. Concurrent
// calls for one owner yield a single gym.
func (s *service) AutoProvisionOnFirstAdminLogin(ctx context.Context, ownerID int) (*Provisioned, error) {
	p, created, err := s.repo.ProvisionFirst(ctx, ownerID, s.defaultPlan, defaultDraft)
	if db.IsUniqueViolation(err, "gyms_auto_provisioned_for_key") {
		p, created, err = s.repo.ProvisionFirst(ctx, ownerID, s.defaultPlan, defaultDraft)
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.provisioned(ctx, p, ownerID, TriggerFirstLogin)
	}
	return p, nil
}

func defaultDraft(o Owner) Draft {
	name := strings.TrimSpace(o.Name)
	if name == "" {
		name, _, _ = strings.Cut(o.Email, "@")
	}
	gymName := "My Gym"
	if name != "" {
		gymName = name + "'s Gym"
	}
	return Draft{
		Name:       gymName,
		OwnerName:  strings.TrimSpace(o.Name),
		OwnerEmail: o.Email,
	}
}

func (s *service) provisioned(ctx context.Context, p *Provisioned, ownerID int, trigger string) {
	logger.Info("gym provisioned",
		"gym_id", p.Gym.ID,
		"owner_id", ownerID,
		"plan", p.PlanName,
		"trigger", trigger,
	)
	metrics.RecordGymProvisioned(trigger)

	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.SendGymReady(ctx, p.Gym.OwnerEmail, p.Gym.Name, p.PlanName); err != nil {
		logger.Error("failed to queue gym ready email", "gym_id", p.Gym.ID, "error", err)
	}
}

func (s *service) ListGyms(ctx context.Context, ids []int) ([]Gym, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *service) GetGym(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("gym.update", "name must not be empty")
		}
		req.Name = &name
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) DeleteGym(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("gym deleted", "gym_id", id)
	return nil
}
