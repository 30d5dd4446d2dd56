package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/importer"
	"github.com/lalith-99/eventboard/internal/models"
	"github.com/lalith-99/eventboard/internal/planner"
)

// GuestService is the guest side of planner.Service.
type GuestService interface {
	ListGuestsDeduped(ctx context.Context) ([]models.Guest, error)
	GetGuest(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	AddOrUpdateGuest(ctx context.Context, in planner.GuestInput) (*models.Guest, bool, error)
	UpdateGuest(ctx context.Context, id uuid.UUID, p planner.GuestPatch) (*models.Guest, error)
	RemoveGuest(ctx context.Context, id uuid.UUID) error
}

// GuestHandler serves /api/guests.
//
// Why does it take an interface and not *planner.Service?
//   - Handlers only translate HTTP to planner calls and back. The interface
//     lists exactly the calls this file makes.
//   - Tests can hand in a stub when a real store is in the way.
type GuestHandler struct {
	svc    GuestService
	logger *zap.Logger
}

func NewGuestHandler(svc GuestService, logger *zap.Logger) *GuestHandler {
	return &GuestHandler{svc: svc, logger: logger}
}

// List handles GET /api/guests. Duplicate (name, instagram) records are
// folded before they reach the dashboard.
func (h *GuestHandler) List(c *gin.Context) {
	guests, err := h.svc.ListGuestsDeduped(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list guests", err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

// Export handles GET /api/guests/export. The default is a CSV sheet that
// POST /api/guests/import (after column mapping) or "eventctl import" reads
// back unchanged; ?format=rows returns the same rows as JSON.
func (h *GuestHandler) Export(c *gin.Context) {
	guests, err := h.svc.ListGuestsDeduped(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "export guests", err)
		return
	}
	rows := importer.ExportRows(guests)

	switch c.DefaultQuery("format", "csv") {
	case "rows":
		c.JSON(http.StatusOK, rows)
	case "csv":
		// Render first so a write failure can still become a 500.
		var buf bytes.Buffer
		if err := importer.WriteCSV(&buf, rows); err != nil {
			writeError(c, h.logger, "export guests", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="guests.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or rows"})
	}
}

// Get handles GET /api/guests/:id
func (h *GuestHandler) Get(c *gin.Context) {
	id, ok := pathID(c, models.EntityGuest)
	if !ok {
		return
	}
	guest, err := h.svc.GetGuest(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "get guest", err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// Create handles POST /api/guests. A guest with the same name is updated
// instead: 201 for a new record, 200 for a merge.
func (h *GuestHandler) Create(c *gin.Context) {
	var req planner.GuestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	guest, created, err := h.svc.AddOrUpdateGuest(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "save guest", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, guest)
}

// Update handles PATCH /api/guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	id, ok := pathID(c, models.EntityGuest)
	if !ok {
		return
	}

	// Step 1: Decode into a patch. Keys missing from the body stay unset and
	// are left alone; the edit form's string ages decode via models.Age.
	var req planner.GuestPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Step 2: Apply. "table" in the body is ignored, seating is changed
	// through the table endpoints only.
	guest, err := h.svc.UpdateGuest(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, "update guest", err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// Delete handles DELETE /api/guests/:id. The guest also leaves every table.
func (h *GuestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.EntityGuest)
	if !ok {
		return
	}
	if err := h.svc.RemoveGuest(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, "delete guest", err)
		return
	}
	deleted(c)
}
