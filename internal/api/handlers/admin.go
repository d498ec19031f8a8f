package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"calrelay/internal/gcal"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// AdminHandler handles administrative operations on the stored token
type AdminHandler struct {
	store   gcal.TokenStore
	manager *gcal.Manager
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store gcal.TokenStore, manager *gcal.Manager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:   store,
		manager: manager,
		logger:  logger,
	}
}

// UpdateRefreshToken seeds or replaces the stored refresh token
// POST /v1/admin/google/refresh-token
func (h *AdminHandler) UpdateRefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"code":    "INVALID_REQUEST",
			"details": err.Error(),
		})
		return
	}

	token, err := h.store.GetToken(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get existing token",
			"component", "api.admin",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve existing token",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	if token == nil {
		token = &oauth2.Token{}
	}

	token.RefreshToken = req.RefreshToken
	// Clear the access token to force a refresh on next use
	token.AccessToken = ""
	token.Expiry = time.Time{}

	if err := h.store.SaveToken(c.Request.Context(), token); err != nil {
		h.logger.Error("Failed to save refresh token",
			"component", "api.admin",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save refresh token",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	h.manager.Invalidate()

	h.logger.Info("Refresh token updated successfully",
		"component", "api.admin",
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Refresh token updated successfully",
	})
}

// GetTokenStatus reports whether a token is stored and still usable
// GET /v1/admin/google/token-status
func (h *AdminHandler) GetTokenStatus(c *gin.Context) {
	token, err := h.store.GetToken(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get token",
			"component", "api.admin",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve token status",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	if token == nil {
		c.JSON(http.StatusOK, gin.H{
			"configured": false,
			"message":    "No token stored. Complete the flow via /authorize or seed a refresh token via POST /v1/admin/google/refresh-token.",
		})
		return
	}

	var accessTokenStatus string
	var accessTokenExpiresIn *int

	switch {
	case token.AccessToken == "":
		accessTokenStatus = "not_cached"
	case token.Expiry.IsZero():
		accessTokenStatus = "cached_no_expiry"
	case time.Now().After(token.Expiry):
		accessTokenStatus = "expired"
	default:
		accessTokenStatus = "valid"
		expiresIn := int(time.Until(token.Expiry).Seconds())
		accessTokenExpiresIn = &expiresIn
	}

	response := gin.H{
		"configured":          true,
		"has_refresh_token":   token.RefreshToken != "",
		"access_token_status": accessTokenStatus,
	}

	if accessTokenExpiresIn != nil {
		response["access_token_expires_in_seconds"] = *accessTokenExpiresIn
	}

	c.JSON(http.StatusOK, response)
}
