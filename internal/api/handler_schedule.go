package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appliance-manager/internal/calendar"
	"appliance-manager/internal/form"
	"appliance-manager/internal/parse"
)

// Slot choices offered by the schedule form.
var (
	scheduleHours   = []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	scheduleMinutes = []int{0, 15, 30, 45}
)

// ReplacementModal renders the scheduling dialog for replacing an installed
// appliance with the catalog appliance posted as appliance_id.
func (h *Handler) ReplacementModal(c *gin.Context) {
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
	current, err := h.store.FindPropertyAppliance(ctx, propertyID, applianceID)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	replacementID, err := strconv.ParseInt(strings.TrimSpace(c.PostForm("appliance_id")), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}
	replacement, err := h.store.GetAppliance(ctx, replacementID)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	today := h.today()
	c.Header("HX-Target", "#scheduleModal")
	c.Header("HX-Swap", "outerHTML")
	c.Header("HX-Trigger-After-Swap", "showModal")
	c.HTML(http.StatusOK, "schedule_modal.html", gin.H{
		"Appliance":           replacement,
		"Property":            current.Property,
		"PropertyApplianceID": current.ID,
		"Availability":        calendar.Current(today),
		"Today":               today.Format(time.DateOnly),
		"Hours":               scheduleHours,
		"Minutes":             scheduleMinutes,
	})
}

// ReplacementSubmit creates a schedule from the modal form.
func (h *Handler) ReplacementSubmit(c *gin.Context) {
	var in form.ScheduleInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "errors": gin.H{form.NonFieldErrors: []string{err.Error()}}})
		return
	}

	ctx := c.Request.Context()
	schedule, err := in.Validate(ctx, h.store, h.now())
	if err != nil {
		h.formFailed(c, err)
		return
	}

	ok, err := h.canAccess(c, schedule.PropertyAppliance.PropertyID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !ok {
		h.formFailed(c, form.FieldErrors{"property_appliance_id": {"Invalid property appliance"}})
		return
	}

	if err := h.store.CreateSchedule(ctx, schedule); err != nil {
		h.serverError(c, err)
		return
	}
	h.log.Info("schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("property_appliance_id", schedule.PropertyApplianceID))

	if schedule.NotificationsEnabled && h.pool != nil {
		h.pool.Dispatch(schedule.ID)
	}

	h.alert(c, "success", "Schedule created successfully!")
}

// GetMonthDates returns the availability grid for ?year=&month=, or for the
// current month when either is missing or unreadable.
func (h *Handler) GetMonthDates(c *gin.Context) {
	today := h.today()

	year, month, ok := parse.YearMonth(c.Query("year"), c.Query("month"))
	if !ok {
		c.JSON(http.StatusOK, calendar.Current(today))
		return
	}

	availability, err := calendar.Month(year, month, today)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, availability)
}

// DeleteSchedule removes a schedule.
func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := h.pathID(c, "scheduleID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	schedule, err := h.store.GetSchedule(ctx, id)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	if !h.authorize(c, schedule.PropertyAppliance.PropertyID) {
		return
	}

	if err := h.store.DeleteSchedule(ctx, id); err != nil {
		h.lookupFailed(c, err)
		return
	}
	h.alert(c, "success", "Schedule deleted successfully!")
}
