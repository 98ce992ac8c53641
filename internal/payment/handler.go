package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"shawedgym/internal/api"
	"shawedgym/internal/auth"
	"shawedgym/internal/logger"
	"shawedgym/internal/scope"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        request body payment.RecordRequest true "Payment"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /gyms/{id}/payments [post]
func (h *Handler) Record(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	gymID := scope.GymID(c)
	p, err := h.repo.Record(c.Request.Context(), gymID, principal.UserID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	logger.Info("payment recorded", "gym_id", gymID, "member_id", p.MemberID, "amount_cents", p.AmountCents)
	c.JSON(http.StatusCreated, p)
}

// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Gym ID"
// @Param        member_id query int false "Only this member"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200 {array} payment.Payment
// @Router       /gyms/{id}/payments [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.BadRequest(c, err)
		return
	}

	payments, err := h.repo.List(c.Request.Context(), scope.GymID(c), f)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
