package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appliance-manager/internal/mw"
)

// Home lists the properties assigned to the signed-in landlord.
func (h *Handler) Home(c *gin.Context) {
	user := mw.CurrentUser(c)
	ups, err := h.store.ListUserProperties(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"User":           user,
		"UserProperties": ups,
	})
}

// PropertyView shows one assignment with its installed appliances. The id is
// the UserProperty id, not the property id.
func (h *Handler) PropertyView(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	up, err := h.store.GetUserProperty(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	if !h.authorize(c, up.PropertyID) {
		return
	}

	c.HTML(http.StatusOK, "property.html", gin.H{
		"User":         mw.CurrentUser(c),
		"Title":        up.Property.Name,
		"UserProperty": up,
	})
}

// ApplianceView shows one installation and the catalog appliances of the same
// type that could replace it.
func (h *Handler) ApplianceView(c *gin.Context) {
	propertyID, ok := h.pathID(c, "propertyID")
	if !ok {
		return
	}
	applianceID, ok := h.pathID(c, "applianceID")
	if !ok {
		return
	}
	if !h.authorize(c, propertyID) {
		return
	}

	ctx := c.Request.Context()
	pa, err := h.store.FindPropertyAppliance(ctx, propertyID, applianceID)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	candidates, err := h.store.ListAppliancesByType(ctx, pa.Appliance.Type)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "installation.html", gin.H{
		"User":                mw.CurrentUser(c),
		"Title":               pa.Appliance.String(),
		"Property":            pa.Property,
		"CurrentAppliance":    pa,
		"Appliances":          candidates,
		"PropertyApplianceID": pa.ID,
	})
}

// Explore lists the whole appliance catalog.
func (h *Handler) Explore(c *gin.Context) {
	appliances, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "explore.html", gin.H{
		"User":       mw.CurrentUser(c),
		"Title":      "Explore",
		"Appliances": appliances,
	})
}

// Profile shows the signed-in user.
func (h *Handler) Profile(c *gin.Context) {
	user := mw.CurrentUser(c)
	ups, err := h.store.ListUserProperties(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":           user,
		"Title":          "Profile",
		"UserProperties": ups,
	})
}
