// Package scope decides which gyms an authenticated principal may touch.
package scope

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/apperror"
	"shawedgym/internal/auth"
)

const gymIDKey = "gym_id"

// Store answers the two membership questions; the gym repository implements it.
type Store interface {
	OwnedGymIDs(ctx context.Context, userID int) ([]int, error)
	// StaffGymID returns the one gym a staff user is bound to, or a
	// NotFound error when the user is unbound.
	StaffGymID(ctx context.Context, userID int) (int, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns every gym the principal may read or write.
func (r *Resolver) Resolve(ctx context.Context, p auth.Principal) ([]int, error) {
	switch p.Role {
	case auth.RoleAdmin:
		return r.store.OwnedGymIDs(ctx, p.UserID)
	case auth.RoleCashier:
		id, err := r.store.StaffGymID(ctx, p.UserID)
		if apperror.KindOf(err) == apperror.KindNotFound {
			return []int{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []int{id}, nil
	}
	return []int{}, nil
}

// Authorize fails with Forbidden unless gymID is in the principal's scope.
// The error is the same whether or not the gym exists.
func (r *Resolver) Authorize(ctx context.Context, p auth.Principal, gymID int) error {
	ids, err := r.Resolve(ctx, p)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == gymID {
			return nil
		}
	}
	return apperror.Forbidden("scope.authorize")
}

// Target picks the single gym for an operation that does not name one in
// its path: the selected gym when given, otherwise the only gym in scope.
func (r *Resolver) Target(ctx context.Context, p auth.Principal, selected int) (int, error) {
	if selected > 0 {
		if err := r.Authorize(ctx, p, selected); err != nil {
			return 0, err
		}
		return selected, nil
	}

	ids, err := r.Resolve(ctx, p)
	if err != nil {
		return 0, err
	}
	switch len(ids) {
	case 0:
		return 0, apperror.Forbidden("scope.target")
	case 1:
		return ids[0], nil
	}
	return 0, apperror.Validation("scope.target", "several gyms in scope; select one with the "+auth.GymHeader+" header")
}

// RequireGym authorizes the :id path parameter against the caller's scope and
// stores the gym id for GymID.
func (r *Resolver) RequireGym() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.GetPrincipal(c)
		if !ok {
			api.RespondError(c, apperror.Forbidden("scope.require_gym"))
			return
		}

		gymID, err := strconv.Atoi(c.Param("id"))
		if err != nil || gymID <= 0 {
			api.RespondError(c, apperror.Validation("scope.require_gym", "invalid gym id"))
			return
		}

		if err := r.Authorize(c.Request.Context(), principal, gymID); err != nil {
			api.RespondError(c, err)
			return
		}

		c.Set(gymIDKey, gymID)
		c.Next()
	}
}

// GymID returns the gym authorized by RequireGym.
func GymID(c *gin.Context) int {
	return c.GetInt(gymIDKey)
}

// SetGymID is used by tests that exercise handlers without the middleware.
func SetGymID(c *gin.Context, gymID int) {
	c.Set(gymIDKey, gymID)
}
