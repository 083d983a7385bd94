package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketrent/rentroll-server/src/middleware"
	"github.com/marketrent/rentroll-server/src/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles admin registration and login
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	MarketName string `json:"marketName"`
	TotalShops int    `json:"totalShops" binding:"gte=0"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for successful login
type LoginResponse struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	MarketName string `json:"marketName"`
	TotalShops int    `json:"totalShops"`
	ExpiresAt  int64  `json:"expires_at"`
}

// HandleRegister creates a new admin account. No token is issued; the client
// logs in afterwards.
func (ah *AdminHandler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	_, err := ah.adminService.RegisterAdmin(c.Request.Context(), req.Username, req.Password, req.MarketName, req.TotalShops)
	if err != nil {
		if errors.Is(err, services.ErrAdminExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "admin already exists"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("failed to register admin")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while registering admin"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "admin created"})
}

// HandleLogin authenticates an admin and returns a signed bearer token
func (ah *AdminHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	admin, err := ah.adminService.AuthenticateAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("failed to authenticate admin")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while logging in"})
		return
	}

	token, err := middleware.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:      token,
		Username:   admin.Username,
		MarketName: admin.MarketName,
		TotalShops: admin.TotalShops,
		ExpiresAt:  time.Now().Add(middleware.TokenTTL).Unix(),
	})
}
