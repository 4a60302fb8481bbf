package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appliance-manager/internal/auth"
	"appliance-manager/internal/mw"
	"appliance-manager/internal/store"
)

const badCredentials = "Please enter a correct username and password."

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// LoginPage renders the login form. Signed-in users go straight to next.
func (h *Handler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if mw.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Next": next})
}

// Login checks the submitted credentials and starts a session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		// Every field is optional at bind time; an unreadable body fails the
		// credential check below like an empty form would.
		h.log.Debug("login form not bound", zap.Error(err))
	}
	req.Username = strings.TrimSpace(req.Username)
	next := safeNext(req.Next)

	ctx := c.Request.Context()
	user, err := h.store.GetUserByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = auth.ErrBadCredentials
	case err != nil:
		h.serverError(c, err)
		return
	case !user.IsActive:
		err = auth.ErrBadCredentials
	default:
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if err != nil {
		h.log.Info("login rejected", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    badCredentials,
			"Next":     next,
			"Username": req.Username,
		})
		return
	}

	token, err := h.sessions.Issue(user.ID, user.IsStaff)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if err := h.store.TouchLastLogin(ctx, user.ID, h.now()); err != nil {
		h.log.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	h.setSessionCookie(c, token, int(h.sessions.TTL().Seconds()))
	h.log.Info("user logged in", zap.Int64("user_id", user.ID))
	c.Redirect(http.StatusFound, next)
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, h.auth.LoginPath)
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, value, maxAge, "/", "", h.auth.SecureCookie, true)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
