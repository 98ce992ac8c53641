package plan

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/apperror"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func planID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		api.RespondError(c, apperror.Validation("plan", "invalid plan id"))
		return 0, false
	}
	return id, true
}

// @Summary      List subscription plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} plan.Plan
// @Router       /subscription-plans [get]
func (h *Handler) List(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary      Get a subscription plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} plan.Plan
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscription-plans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create a subscription plan
// @Tags         plans,admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.CreatePlanRequest true "Plan payload"
// @Success      201 {object} plan.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscription-plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	p, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Update a subscription plan
// @Tags         plans,admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Param        request body plan.UpdatePlanRequest true "Fields to change"
// @Success      200 {object} plan.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscription-plans/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	p, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a subscription plan
// @Tags         plans,admin
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscription-plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
