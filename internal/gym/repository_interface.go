package gym

import "context"

type Repository interface {
	// Provision writes the gym, the owner edge and the initial active
	// subscription in one transaction.
	Provision(ctx context.Context, ownerID int, draft Draft) (*Provisioned, error)
	// ProvisionFirst locks the owner, returns their most recent gym when they
	// already own one, and otherwise provisions the draft built by build.
	ProvisionFirst(ctx context.Context, ownerID int, planName string, build func(o Owner) Draft) (*Provisioned, bool, error)
	GetByID(ctx context.Context, id int) (*Gym, error)
	ListByIDs(ctx context.Context, ids []int) ([]Gym, error)
	Update(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error)
	Delete(ctx context.Context, id int) error
	OwnedGymIDs(ctx context.Context, userID int) ([]int, error)
	StaffGymID(ctx context.Context, userID int) (int, error)
}
