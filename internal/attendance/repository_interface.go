package attendance

import "context"

type Repository interface {
	Create(ctx context.Context, gymID, memberID, recordedBy int) (*CheckIn, error)
	List(ctx context.Context, gymID int, f ListFilter) ([]CheckIn, error)
}
