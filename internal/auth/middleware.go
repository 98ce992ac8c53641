package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/api"
)

const (
	principalKey = "principal"

	// GymHeader carries the owner's currently selected gym.
	GymHeader = "X-Gym-ID"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg, Code: "unauthorized"})
}

func Middleware(p *Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			unauthorized(c, "token is empty")
			return
		}

		principal, err := p.VerifyAccess(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				unauthorized(c, "token expired")
			case errors.Is(err, ErrInvalidTokenType):
				unauthorized(c, "access token required")
			default:
				unauthorized(c, "invalid or malformed token")
			}
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole admits principals holding any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "insufficient permissions", Code: "forbidden"})
	}
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// SelectedGymID reads the X-Gym-ID header. ok is false when the header is
// absent; a present but non-numeric value is an error.
func SelectedGymID(c *gin.Context) (id int, ok bool, err error) {
	raw := strings.TrimSpace(c.GetHeader(GymHeader))
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false, errors.New("invalid " + GymHeader + " header")
	}
	return id, true, nil
}
