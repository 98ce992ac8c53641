package gym

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/apperror"
	"shawedgym/internal/auth"
	"shawedgym/internal/scope"
)

// Scope is the subset of scope.Resolver the handler needs.
type Scope interface {
	Resolve(ctx context.Context, p auth.Principal) ([]int, error)
	Target(ctx context.Context, p auth.Principal, selected int) (int, error)
}

type Handler struct {
	service Service
	scope   Scope
}

func NewHandler(service Service, scope Scope) *Handler {
	return &Handler{
		service: service,
		scope:   scope,
	}
}

// @Summary      Provision a gym
// @Description  Creates a gym owned by the caller with an active subscription
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} gym.Provisioned
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms [post]
func (h *Handler) Create(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	p, err := h.service.ProvisionGym(c.Request.Context(), principal.UserID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      List gyms in the caller's scope
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} gym.Gym
// @Router       /gyms [get]
func (h *Handler) List(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)
	ctx := c.Request.Context()

	ids, err := h.scope.Resolve(ctx, principal)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	gyms, err := h.service.ListGyms(ctx, ids)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gyms)
}

// @Summary      Get the currently selected gym
// @Description  Uses the X-Gym-ID header, or the only gym in scope
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        X-Gym-ID header int false "Selected gym"
// @Success      200 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/current [get]
func (h *Handler) Current(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)
	ctx := c.Request.Context()

	selected, _, err := auth.SelectedGymID(c)
	if err != nil {
		api.RespondError(c, apperror.Validation("gym.current", err.Error()))
		return
	}

	id, err := h.scope.Target(ctx, principal, selected)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	g, err := h.service.GetGym(ctx, id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary      Get a gym
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Success      200 {object} gym.Gym
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	g, err := h.service.GetGym(c.Request.Context(), scope.GymID(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary      Update a gym
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        request body gym.UpdateGymRequest true "Fields to change"
// @Success      200 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	g, err := h.service.UpdateGym(c.Request.Context(), scope.GymID(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary      Delete a gym and all of its data
// @Tags         gyms
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Success      204
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.DeleteGym(c.Request.Context(), scope.GymID(c)); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
