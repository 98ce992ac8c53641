package subscription

import "context"

type Repository interface {
	Subscribe(ctx context.Context, gymID, planID int) (*ActiveSubscription, error)
	GetActive(ctx context.Context, gymID int) (*ActiveSubscription, error)
	History(ctx context.Context, gymID int) ([]GymSubscription, error)
}
