package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/scope"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Subscribe a gym to a plan
// @Description  Replaces the gym's active subscription
// @Tags         gyms,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        request body subscription.SubscribeRequest true "Plan"
// @Success      200 {object} subscription.ActiveSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), scope.GymID(c), req.PlanID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary      Get the active subscription
// @Tags         gyms,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Success      200 {object} subscription.ActiveSubscription
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{id}/subscription [get]
func (h *Handler) GetActive(c *gin.Context) {
	sub, err := h.service.GetActive(c.Request.Context(), scope.GymID(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary      List past and current subscriptions
// @Tags         gyms,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Success      200 {array} subscription.GymSubscription
// @Router       /gyms/{id}/subscriptions [get]
func (h *Handler) History(c *gin.Context) {
	subs, err := h.service.History(c.Request.Context(), scope.GymID(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}
