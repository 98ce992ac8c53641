// Package usage reports a gym's occupancy against its plan. Counts are read
// live on every call and never cached.
package usage

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"shawedgym/internal/api"
	"shawedgym/internal/quota"
	"shawedgym/internal/scope"
	"shawedgym/internal/subscription"
)

type Usage struct {
	GymID            int    `json:"gym_id"`
	PlanName         string `json:"plan_name"`
	MemberLimit      int    `json:"member_limit"`
	ActiveMembers    int    `json:"active_members"`
	UsagePercentage  int    `json:"usage_percentage"`
	RemainingMembers int    `json:"remaining_members"`
}

func compute(gymID int, planName string, active, limit int) Usage {
	u := Usage{
		GymID:         gymID,
		PlanName:      planName,
		MemberLimit:   limit,
		ActiveMembers: active,
	}
	if limit > 0 {
		// Half-up rounding of 100*active/limit in integers.
		u.UsagePercentage = (200*active + limit) / (2 * limit)
	}
	u.RemainingMembers = max(limit-active, 0)
	return u
}

type Reporter struct {
	db *sqlx.DB
}

func NewReporter(db *sqlx.DB) *Reporter {
	return &Reporter{db: db}
}

// GetUsage takes no lock and may trail a concurrent admission by one member.
func (r *Reporter) GetUsage(ctx context.Context, gymID int) (*Usage, error) {
	sub, err := subscription.Active(ctx, r.db, gymID)
	if err != nil {
		return nil, err
	}

	active, err := quota.CountActiveMembers(ctx, r.db, gymID)
	if err != nil {
		return nil, err
	}

	u := compute(gymID, sub.PlanName, active, sub.MemberLimit)
	return &u, nil
}

type Handler struct {
	reporter *Reporter
}

func NewHandler(reporter *Reporter) *Handler {
	return &Handler{reporter: reporter}
}

// @Summary      Gym usage
// @Description  Active members against the current plan limit
// @Tags         usage
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Success      200 {object} usage.Usage
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{id}/usage [get]
func (h *Handler) Get(c *gin.Context) {
	u, err := h.reporter.GetUsage(c.Request.Context(), scope.GymID(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
