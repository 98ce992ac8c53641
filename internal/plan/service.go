package plan

import (
	"context"
	"strings"

	"shawedgym/internal/apperror"
	"shawedgym/internal/logger"
)

type Service interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id int) (*Plan, error)
	GetPlanByName(ctx context.Context, name string) (*Plan, error)
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	UpdatePlan(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error)
	DeletePlan(ctx context.Context, id int) error
	EnsureDefaults(ctx context.Context) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func validate(op string, p *Plan) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return apperror.Validation(op, "name is required")
	case len(p.Name) > 100:
		return apperror.Validation(op, "name must be at most 100 characters")
	case p.PriceCents < 0:
		return apperror.Validation(op, "price must not be negative")
	case p.MemberLimit < 1:
		return apperror.Validation(op, "member_limit must be at least 1")
	}
	return nil
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx)
}

func (s *service) GetPlan(ctx context.Context, id int) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetPlanByName(ctx context.Context, name string) (*Plan, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	p := &Plan{
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		MemberLimit: req.MemberLimit,
		Features:    req.Features,
	}
	if err := validate("plan.create", p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("plan created", "plan_id", p.ID, "name", p.Name, "member_limit", p.MemberLimit)
	return p, nil
}

// UpdatePlan applies a partial update. Name and member_limit are frozen while
// an active subscription references the plan; price and features are not.
func (s *service) UpdatePlan(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	return s.repo.Update(ctx, id, func(p *Plan, inUse bool) error {
		if inUse {
			if req.Name != nil && !strings.EqualFold(strings.TrimSpace(*req.Name), p.Name) {
				return apperror.Conflict("plan.update", "cannot rename a plan referenced by an active subscription")
			}
			if req.MemberLimit != nil && *req.MemberLimit != p.MemberLimit {
				return apperror.Conflict("plan.update", "cannot change member_limit of a plan referenced by an active subscription")
			}
		}

		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.PriceCents != nil {
			p.PriceCents = *req.PriceCents
		}
		if req.MemberLimit != nil {
			p.MemberLimit = *req.MemberLimit
		}
		if req.Features != nil {
			p.Features = *req.Features
		}
		return validate("plan.update", p)
	})
}

func (s *service) DeletePlan(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("plan deleted", "plan_id", id)
	return nil
}

func (s *service) EnsureDefaults(ctx context.Context) error {
	n, err := s.repo.EnsureDefaults(ctx, DefaultPlans)
	if err != nil {
		return err
	}
	logger.Info("default plans ensured", "inserted", n, "total", len(DefaultPlans))
	return nil
}
