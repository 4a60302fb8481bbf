package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"appliance-manager/config"
	"appliance-manager/internal/auth"
	"appliance-manager/internal/form"
	"appliance-manager/internal/model"
	"appliance-manager/internal/mw"
	"appliance-manager/internal/store"
)

// Dispatcher queues schedule notifications.
type Dispatcher interface {
	Dispatch(scheduleID int64) bool
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	webpush  *webpush.Options
	pool     Dispatcher
	sessions *auth.Sessions
	auth     config.AuthConfig
	cache    *cache.Cache
	log      *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new API handler. webpushOptions and pool may be nil
// when push notifications are not configured.
func NewHandler(s store.Store, webpushOptions *webpush.Options, pool Dispatcher, sessions *auth.Sessions, authCfg config.AuthConfig, responses *cache.Cache, log *zap.Logger) *Handler {
	return &Handler{
		store:    s,
		webpush:  webpushOptions,
		pool:     pool,
		sessions: sessions,
		auth:     authCfg,
		cache:    responses,
		log:      log,
		now:      utcNow,
	}
}

// utcNow is the default clock. Calendar days are UTC days.
func utcNow() time.Time {
	return time.Now().UTC()
}

func (h *Handler) today() time.Time {
	return model.DateOnly(h.now())
}

// pathID parses an integer path parameter. Anything else is a 404, as the
// route would not have matched a non-numeric segment.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"User":    mw.CurrentUser(c),
		"Title":   "Not found",
		"Status":  http.StatusNotFound,
		"Message": "The page you asked for does not exist.",
	})
	c.Abort()
}

func (h *Handler) serverError(c *gin.Context, err error) {
	c.Error(err)
	h.log.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", mw.GetRequestID(c)),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// lookupFailed writes a 404 for a missing row and a 500 for anything else.
func (h *Handler) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

// formFailed writes the field errors of an invalid submission.
func (h *Handler) formFailed(c *gin.Context, err error) {
	var fe form.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "errors": fe})
		return
	}
	h.serverError(c, err)
}

// canAccess reports whether the signed-in user may see the property. Staff
// see everything.
func (h *Handler) canAccess(c *gin.Context, propertyID int64) (bool, error) {
	user := mw.CurrentUser(c)
	if user == nil {
		return false, nil
	}
	if user.IsStaff {
		return true, nil
	}
	return h.store.IsAssigned(c.Request.Context(), user.ID, propertyID)
}

// authorize writes a 404 unless the user may see the property, so ids of
// other landlords' properties are not disclosed.
func (h *Handler) authorize(c *gin.Context, propertyID int64) bool {
	ok, err := h.canAccess(c, propertyID)
	if err != nil {
		h.serverError(c, err)
		return false
	}
	if !ok {
		h.notFound(c)
		return false
	}
	return true
}

func (h *Handler) alert(c *gin.Context, level, message string) {
	c.HTML(http.StatusOK, "alert.html", gin.H{"Level": level, "Message": message})
}
