package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"tempo/internal/domain"
	"tempo/internal/logger"
	"tempo/internal/repository"
	"tempo/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	stateCookie = "oauth_state"
	demoEmail   = "demo@tempo.app"
)

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GoogleLogin starts the OAuth code flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	if !h.Google.Enabled() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

// GoogleCallback finishes the OAuth flow: verifies state, exchanges the
// code, upserts the user and hands the browser a session token via the
// URL fragment.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.Google.Enabled() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	wantState, err := c.Cookie(stateCookie)
	if err != nil || wantState == "" || c.Query("state") != wantState {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ctx := c.Request.Context()
	info, err := h.Google.Exchange(ctx, code)
	if err != nil {
		logger.Error("oauth exchange failed", "error", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.Users.GetByGoogleID(ctx, info.Sub)
	switch {
	case err == nil:
		// existing user: refresh the profile fields Google may have changed
		if info.Name != user.Name || info.Picture != user.Picture {
			if err := h.Users.UpdateProfile(ctx, user.ID, info.Name, info.Picture); err != nil {
				logger.Warn("profile refresh failed", "user_id", user.ID, "error", err)
			}
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = &domain.User{
			GoogleID: info.Sub,
			Email:    info.Email,
			Name:     info.Name,
			Picture:  info.Picture,
		}
		if err := h.Users.Create(ctx, user); err != nil {
			logger.Error("user create failed", "error", err)
			c.Redirect(http.StatusFound, "/login")
			return
		}
	default:
		logger.Error("user lookup failed", "error", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	// fragment keeps the token out of server logs on the final hop
	c.Redirect(http.StatusFound, "/#token="+token)
}

// DemoLogin issues a session for the shared demo account. Only available
// in dev mode, where OAuth credentials are absent.
func (h *Handler) DemoLogin(c *gin.Context) {
	if !h.Cfg.DevMode {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByEmail(ctx, demoEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &domain.User{
			GoogleID: "demo-user-id",
			Email:    demoEmail,
			Name:     "Demo User",
		}
		err = h.Users.Create(ctx, user)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Logout exists for symmetry; sessions are stateless JWTs the client
// simply discards.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
	})
}
