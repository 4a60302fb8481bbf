package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appliance-manager/internal/form"
	"appliance-manager/internal/store"
)

// Staff endpoints for maintaining the catalog, properties and assignments.

func (h *Handler) ListAppliances(c *gin.Context) {
	appliances, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, appliances)
}

func (h *Handler) CreateAppliance(c *gin.Context) {
	var in form.ApplianceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appliance, err := in.Validate()
	if err != nil {
		h.formFailed(c, err)
		return
	}
	if err := h.store.CreateAppliance(c.Request.Context(), appliance); err != nil {
		h.serverError(c, err)
		return
	}
	h.flushCache()
	h.log.Info("appliance created", zap.Int64("appliance_id", appliance.ID))
	c.JSON(http.StatusCreated, appliance)
}

func (h *Handler) DeleteAppliance(c *gin.Context) {
	h.adminDelete(c, h.store.DeleteAppliance)
}

func (h *Handler) ListProperties(c *gin.Context) {
	properties, err := h.store.ListProperties(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var in form.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	property, err := in.Validate()
	if err != nil {
		h.formFailed(c, err)
		return
	}
	if err := h.store.CreateProperty(c.Request.Context(), property); err != nil {
		h.serverError(c, err)
		return
	}
	h.flushCache()
	h.log.Info("property created", zap.Int64("property_id", property.ID))
	c.JSON(http.StatusCreated, property)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	h.adminDelete(c, h.store.DeleteProperty)
}

// CreateAssignment assigns a property to a landlord. A pair can be assigned
// only once.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var in form.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.Validate(); err != nil {
		h.formFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetUser(ctx, in.UserID); err != nil {
		h.jsonLookupFailed(c, err, "user not found")
		return
	}
	if _, err := h.store.GetProperty(ctx, in.PropertyID); err != nil {
		h.jsonLookupFailed(c, err, "property not found")
		return
	}

	up, err := h.store.AssignProperty(ctx, in.UserID, in.PropertyID, h.now())
	if errors.Is(err, store.ErrAlreadyAssigned) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.log.Info("property assigned", zap.Int64("user_id", in.UserID), zap.Int64("property_id", in.PropertyID))
	c.JSON(http.StatusCreated, up)
}

func (h *Handler) adminDelete(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		h.jsonLookupFailed(c, err, "not found")
		return
	}
	h.flushCache()
	c.Status(http.StatusNoContent)
}

func (h *Handler) jsonLookupFailed(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	h.serverError(c, err)
}

// flushCache drops cached pages after the catalog changes.
func (h *Handler) flushCache() {
	if h.cache != nil {
		h.cache.Flush()
	}
}
