package member

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/apperror"
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

func memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("memberID"))
	if err != nil || id <= 0 {
		api.RespondError(c, apperror.Validation("member", "invalid member id"))
		return 0, false
	}
	return id, true
}

// @Summary      Create a member
// @Description  Active members count against the gym's plan limit
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        request body member.CreateMemberRequest true "Member payload"
// @Success      201 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.QuotaErrorResponse
// @Router       /gyms/{id}/members [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	m, err := h.service.CreateMember(c.Request.Context(), scope.GymID(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        status query string false "Filter by status"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200 {array} member.Member
// @Router       /gyms/{id}/members [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.BadRequest(c, err)
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), scope.GymID(c), f)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id}/members/{memberID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	m, err := h.service.GetMember(c.Request.Context(), scope.GymID(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Param        request body member.UpdateMemberRequest true "Fields to change"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id}/members/{memberID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	m, err := h.service.UpdateMember(c.Request.Context(), scope.GymID(c), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Change a member's status
// @Description  Reactivation is subject to the plan limit
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Param        request body member.StatusRequest true "New status"
// @Success      200 {object} member.Member
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.QuotaErrorResponse
// @Router       /gyms/{id}/members/{memberID}/status [put]
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	m, err := h.service.ChangeStatus(c.Request.Context(), scope.GymID(c), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Delete a member
// @Tags         members
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      204
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id}/members/{memberID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMember(c.Request.Context(), scope.GymID(c), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
