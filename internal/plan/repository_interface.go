package plan

import "context"

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	Create(ctx context.Context, p *Plan) error
	// Update locks the plan, passes it to apply together with whether an
	// active subscription references it, and persists the result.
	Update(ctx context.Context, id int, apply func(p *Plan, inUse bool) error) (*Plan, error)
	// Delete fails with a conflict while an active subscription references the plan.
	Delete(ctx context.Context, id int) error
	EnsureDefaults(ctx context.Context, plans []Plan) (int, error)
}
