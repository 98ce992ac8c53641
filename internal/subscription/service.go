package subscription

import (
	"context"

	"shawedgym/internal/logger"
	"shawedgym/internal/metrics"
)

type Service interface {
	Subscribe(ctx context.Context, gymID, planID int) (*ActiveSubscription, error)
	GetActive(ctx context.Context, gymID int) (*ActiveSubscription, error)
	History(ctx context.Context, gymID int) ([]GymSubscription, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// Subscribe switches the gym to planID. Members already admitted stay
// active even when the new limit is lower than the current count; further
// admissions are refused until the count falls below the limit.
func (s *service) Subscribe(ctx context.Context, gymID, planID int) (*ActiveSubscription, error) {
	sub, err := s.repo.Subscribe(ctx, gymID, planID)
	if err != nil {
		return nil, err
	}

	logger.Info("subscription activated",
		"gym_id", gymID,
		"plan_id", planID,
		"plan", sub.PlanName,
		"member_limit", sub.MemberLimit,
	)
	metrics.RecordSubscription(sub.PlanName)
	return sub, nil
}

func (s *service) GetActive(ctx context.Context, gymID int) (*ActiveSubscription, error) {
	return s.repo.GetActive(ctx, gymID)
}

func (s *service) History(ctx context.Context, gymID int) ([]GymSubscription, error) {
	return s.repo.History(ctx, gymID)
}
