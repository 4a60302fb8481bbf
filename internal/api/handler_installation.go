package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appliance-manager/internal/form"
	"appliance-manager/internal/model"
)

// AddApplianceModal renders the add-appliance dialog for a UserProperty.
func (h *Handler) AddApplianceModal(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	up, err := h.store.GetUserProperty(ctx, id)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	if !h.authorize(c, up.PropertyID) {
		return
	}

	appliances, err := h.store.ListAppliances(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.Header("HX-Target", "#applianceAddModal")
	c.Header("HX-Swap", "outerHTML")
	c.Header("HX-Trigger-After-Swap", "showAddApplianceModal")
	c.HTML(http.StatusOK, "appliance_add_modal.html", gin.H{
		"Appliances":   appliances,
		"UserProperty": up,
		"Usages":       model.AllUsages(),
	})
}

// AddApplianceSubmit installs a catalog appliance at the property and returns
// its table row.
func (h *Handler) AddApplianceSubmit(c *gin.Context) {
	var in form.PropertyApplianceInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "errors": gin.H{form.NonFieldErrors: []string{err.Error()}}})
		return
	}

	ctx := c.Request.Context()
	pa, up, err := in.Validate(ctx, h.store, h.now())
	if err != nil {
		h.formFailed(c, err)
		return
	}

	ok, err := h.canAccess(c, up.PropertyID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !ok {
		h.formFailed(c, form.FieldErrors{"property": {"Invalid property"}})
		return
	}

	if err := h.store.CreatePropertyAppliance(ctx, pa); err != nil {
		h.serverError(c, err)
		return
	}
	h.log.Info("appliance installed",
		zap.Int64("property_appliance_id", pa.ID),
		zap.Int64("property_id", pa.PropertyID),
		zap.Int64("appliance_id", pa.ApplianceID))

	c.Header("HX-Trigger", "refreshApplianceList")
	c.HTML(http.StatusOK, "appliance_row.html", gin.H{
		"PropertyAppliance": pa,
		"UserProperty":      up,
	})
}

// DeletePropertyAppliance removes an installation and its schedules.
func (h *Handler) DeletePropertyAppliance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pa, err := h.store.GetPropertyAppliance(ctx, id)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	if !h.authorize(c, pa.PropertyID) {
		return
	}

	if err := h.store.DeletePropertyAppliance(ctx, id); err != nil {
		h.lookupFailed(c, err)
		return
	}
	h.alert(c, "success", "Property appliance deleted successfully!")
}
