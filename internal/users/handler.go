package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes mounts the routes that work without a token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.register)
	rg.POST("/auth/token", h.token)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.ValidationError(c, err)
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.Issues(c, []respond.FieldIssue{{Field: "email", Issue: "already registered"}})
			return
		}
		internalError(c, err)
		return
	}
	respond.Created(c, user)
}

func (h *Handler) token(c *gin.Context) {
	var in TokenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.ValidationError(c, err)
		return
	}
	token, claims, err := h.Svc.IssueToken(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
			return
		}
		internalError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   claims.ExpiresAtTime(),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		internalError(c, err)
		return
	}
	respond.OK(c, user)
}

func internalError(c *gin.Context, err error) {
	telemetry.Error("users.failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"error":      err.Error(),
	})
	respond.Error(c, http.StatusInternalServerError, "internal", "An unexpected error occurred.", nil)
}
