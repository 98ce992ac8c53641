package user

import (
	"errors"
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

func respondAuthError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error(), Code: "unauthorized"})
		return
	}
	api.RespondError(c, err)
}

// Register godoc
// @Summary      Register a gym owner
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Owner registration data"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Login
// @Description  Authenticates by email and password. An owner without a gym gets one provisioned on the plan configured as default.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  AuthResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  AuthResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Current user
// @Description  Returns the caller and the ids of the gyms in their scope.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  MeResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required", Code: "unauthorized"})
		return
	}

	resp, err := h.service.GetMe(c.Request.Context(), principal)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateStaff godoc
// @Summary      Create a cashier for a gym
// @Tags         user
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int           true  "Gym ID"
// @Param        request  body      StaffRequest  true  "Staff account"
// @Success      201      {object}  User
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /gyms/{id}/staff [post]
func (h *Handler) CreateStaff(c *gin.Context) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}

	u, err := h.service.CreateStaff(c.Request.Context(), scope.GymID(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}
