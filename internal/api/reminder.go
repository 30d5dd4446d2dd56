package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
	"github.com/lalith-99/eventboard/internal/planner"
)

// ReminderService is the reminder side of planner.Service.
type ReminderService interface {
	ListReminders(ctx context.Context) ([]models.Reminder, error)
	AddReminder(ctx context.Context, in planner.ReminderInput) (*models.Reminder, error)
	RemoveReminder(ctx context.Context, id uuid.UUID) error
}

// ReminderHandler serves /api/reminders. Reminders have no update endpoint;
// the dashboard deletes and re-adds them.
type ReminderHandler struct {
	svc    ReminderService
	logger *zap.Logger
}

func NewReminderHandler(svc ReminderService, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{svc: svc, logger: logger}
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.svc.ListReminders(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list reminders", err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	var req planner.ReminderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	reminder, err := h.svc.AddReminder(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "create reminder", err)
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// Delete handles DELETE /api/reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.EntityReminder)
	if !ok {
		return
	}
	if err := h.svc.RemoveReminder(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, "delete reminder", err)
		return
	}
	deleted(c)
}
