package member

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository scopes every lookup by gym. A row that exists in another gym is
// indistinguishable from a missing one.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, m *Member) error
	Get(ctx context.Context, gymID, id int) (*Member, error)
	List(ctx context.Context, gymID int, f ListFilter) ([]Member, error)
	Update(ctx context.Context, gymID, id int, req UpdateMemberRequest) (*Member, error)
	SetStatus(ctx context.Context, gymID, id int, status Status) (*Member, error)
	ActivateTx(ctx context.Context, tx *sqlx.Tx, gymID, id int) (*Member, error)
	Delete(ctx context.Context, gymID, id int) error
}
