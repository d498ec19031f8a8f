package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"calrelay/internal/gcal"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// AppointmentScheduler creates calendar events from scheduling requests
type AppointmentScheduler interface {
	ScheduleAppointment(ctx context.Context, summary, startTime, endTime string) (*calendar.Event, error)
}

// Notifier announces successfully scheduled appointments
type Notifier interface {
	AppointmentScheduled(summary, startTime, endTime, link string)
}

// ScheduleHandler relays scheduling requests from the voice-agent
// platform to Google Calendar
type ScheduleHandler struct {
	scheduler AppointmentScheduler
	notifier  Notifier // optional
	logger    *slog.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduler AppointmentScheduler, notifier Notifier, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler: scheduler,
		notifier:  notifier,
		logger:    logger,
	}
}

type scheduleRequest struct {
	Summary   string `json:"summary"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// CreateAppointment validates the payload, forwards it as an event
// insert, and maps the outcome onto the HTTP response
// POST /schedule-appointment
func (h *ScheduleHandler) CreateAppointment(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing start_time or end_time",
			"code":    "INVALID_REQUEST",
			"details": err.Error(),
		})
		return
	}

	created, err := h.scheduler.ScheduleAppointment(c.Request.Context(), req.Summary, req.StartTime, req.EndTime)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	h.logger.Info("Appointment scheduled",
		"component", "api.schedule",
		"event_id", created.Id,
		"start", req.StartTime,
		"end", req.EndTime,
	)

	if h.notifier != nil {
		h.notifier.AppointmentScheduled(created.Summary, req.StartTime, req.EndTime, created.HtmlLink)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Appointment scheduled successfully.",
		"event_link": created.HtmlLink,
	})
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	if errors.Is(err, gcal.ErrNotAuthenticated) {
		h.logger.Error("Scheduling failed: not authenticated",
			"component", "api.schedule",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"code":  "NOT_AUTHENTICATED",
		})
		return
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		h.logger.Error("Scheduling failed: provider error",
			"component", "api.schedule",
			"status", gerr.Code,
			"error", gerr.Message,
		)
		body := gerr.Body
		if body == "" {
			body = gerr.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Google Calendar API error: " + body,
			"code":  "PROVIDER_ERROR",
		})
		return
	}

	h.logger.Error("Scheduling failed",
		"component", "api.schedule",
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": err.Error(),
		"code":  "INTERNAL_ERROR",
	})
}
