package attendance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
	"shawedgym/internal/auth"
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

// @Summary      Check a member in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        request body attendance.CheckInRequest true "Member"
// @Success      201 {object} attendance.CheckIn
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{id}/attendance [post]
func (h *Handler) CheckIn(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	ci, err := h.service.CheckIn(c.Request.Context(), scope.GymID(c), req.MemberID, principal.UserID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ci)
}

// @Summary      List check-ins
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        member_id query int false "Only this member"
// @Param        since query string false "YYYY-MM-DD"
// @Success      200 {array} attendance.CheckIn
// @Router       /gyms/{id}/attendance [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.BadRequest(c, err)
		return
	}

	checkIns, err := h.service.List(c.Request.Context(), scope.GymID(c), f)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIns)
}
