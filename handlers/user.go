package handlers

import (
	"errors"
	"net/http"

	"neira/models"
	"neira/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// RegisterHandler creates an account and returns a session token.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.UserRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.Register(req)
	if err != nil {
		logger.Error("Failed to register user", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateHandler verifies credentials and returns a session token.
func (h *UserHandler) AuthenticateHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.Authenticate(req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to authenticate user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfileHandler returns the authenticated user's profile.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	profile, err := h.Service.GetUserByID(userID)
	if err != nil {
		logger.Error("Failed to get user profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateFCMTokenHandler stores the device token used for pushes.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		FCMToken string `json:"fcm_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Service.UpdateFCMToken(c.GetString("userID"), req.FCMToken); err != nil {
		getLogger(c).Error("Failed to update FCM token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update FCM token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

// SignOutHandler revokes the current session token.
func (h *UserHandler) SignOutHandler(c *gin.Context) {
	if err := h.Service.RevokeAuthToken(c.GetString("userID")); err != nil {
		getLogger(c).Error("Failed to revoke token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// DeleteAccountHandler removes the authenticated account.
func (h *UserHandler) DeleteAccountHandler(c *gin.Context) {
	if err := h.Service.DeleteUser(c.GetString("userID")); err != nil {
		getLogger(c).Error("Failed to delete account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
