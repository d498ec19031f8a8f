package handlers

import (
	"log/slog"
	"net/http"

	"calrelay/internal/gcal"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// OAuthHandler implements the one-time authorization-code flow that seeds
// the token store
type OAuthHandler struct {
	oauth  *oauth2.Config // nil when the client secret is not configured
	store  gcal.TokenStore
	states *gcal.StateStore
	logger *slog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauthCfg *oauth2.Config, store gcal.TokenStore, states *gcal.StateStore, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauth:  oauthCfg,
		store:  store,
		states: states,
		logger: logger,
	}
}

// Authorize redirects the user to the provider's consent screen
// GET /authorize
func (h *OAuthHandler) Authorize(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Google OAuth client is not configured",
			"code":  "NOT_CONFIGURED",
		})
		return
	}

	state := h.states.Issue()

	// access_type=offline and prompt=consent make Google return a
	// refresh token on the exchange
	authURL := h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	c.Redirect(http.StatusFound, authURL)
}

// Callback exchanges the authorization code for a token and persists it
// GET /oauth-callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Google OAuth client is not configured",
			"code":  "NOT_CONFIGURED",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Authorization was denied: " + errParam,
			"code":  "AUTHORIZATION_DENIED",
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Authorization code not found",
			"code":  "MISSING_CODE",
		})
		return
	}

	if !h.states.Consume(c.Query("state")) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or expired state parameter",
			"code":  "INVALID_STATE",
		})
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Failed to exchange authorization code",
			"component", "api.oauth",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to exchange authorization code for a token",
			"code":  "EXCHANGE_FAILED",
		})
		return
	}

	if err := h.store.SaveToken(c.Request.Context(), token); err != nil {
		h.logger.Error("Failed to persist token",
			"component", "api.oauth",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to persist token",
			"code":  "TOKEN_SAVE_FAILED",
		})
		return
	}

	h.logger.Info("Authorization completed, token stored",
		"component", "api.oauth",
		"expiry", token.Expiry,
	)

	c.String(http.StatusOK, "Authentication successful! The token has been stored. The relay can now schedule appointments.")
}
