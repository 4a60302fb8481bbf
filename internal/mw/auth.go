package mw

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appliance-manager/internal/auth"
	"appliance-manager/internal/model"
)

const userKey = "user"

// UserLoader fetches the account named by a session.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Authenticate resolves the session cookie to an active user. Browsers without
// a valid session are redirected to loginPath; JSON and htmx callers get 401.
func Authenticate(sessions *auth.Sessions, users UserLoader, cookieName, loginPath string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c, sessions, users, cookieName, log)
		if user == nil {
			unauthenticated(c, loginPath)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalUser attaches the signed-in user when there is one and never blocks.
func OptionalUser(sessions *auth.Sessions, users UserLoader, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := sessionUser(c, sessions, users, cookieName, log); user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

func sessionUser(c *gin.Context, sessions *auth.Sessions, users UserLoader, cookieName string, log *zap.Logger) *model.User {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return nil
	}

	claims, err := sessions.Parse(token)
	if err != nil {
		log.Debug("rejected session", zap.Error(err))
		return nil
	}
	id, _ := claims.UserID()

	user, err := users.GetUser(c.Request.Context(), id)
	if err != nil {
		log.Debug("session user lookup failed", zap.Int64("user_id", id), zap.Error(err))
		return nil
	}
	if !user.IsActive {
		return nil
	}
	return user
}

func unauthenticated(c *gin.Context, loginPath string) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", loginPath)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireStaff rejects callers without the staff flag.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := CurrentUser(c); u == nil || !u.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Authenticate, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
