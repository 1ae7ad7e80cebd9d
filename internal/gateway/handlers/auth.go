package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"beerhall/config"
	"beerhall/internal/gateway/middleware"
	"beerhall/internal/utils"
)

const adminSessionTTL = 24 * time.Hour

type AuthHandler struct {
	cfg config.AuthConfig
}

func NewAuthHandler(cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	if req.Username != h.cfg.AdminUser || req.Password != h.cfg.AdminPass {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
		return
	}

	token, _, err := utils.GenerateAdminToken(adminSessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create session"))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookie, token, int(adminSessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, APIResponse{Success: true})
}
