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

// TableService is the table side of planner.Service.
type TableService interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
	AddTable(ctx context.Context, in planner.TableInput) (*models.Table, error)
	UpdateTable(ctx context.Context, id uuid.UUID, p planner.TablePatch) (*models.Table, error)
	RemoveTable(ctx context.Context, id uuid.UUID) error
}

// TableHandler serves /api/tables.
//
// Why is seating done through PATCH /api/tables/:id and not on the guest?
//   - The dashboard edits a table's guest list as a whole. One PATCH with the new list lets the planner reseat every affected
//     guest in a single mutation.
//   - PATCH /api/guests/:id ignores "table" so a stale edit form cannot move
//     a guest behind the table's back.
type TableHandler struct {
	svc    TableService
	logger *zap.Logger
}

func NewTableHandler(svc TableService, logger *zap.Logger) *TableHandler {
	return &TableHandler{svc: svc, logger: logger}
}

// List handles GET /api/tables
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.svc.ListTables(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list tables", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// Get handles GET /api/tables/:id
func (h *TableHandler) Get(c *gin.Context) {
	id, ok := pathID(c, models.EntityTable)
	if !ok {
		return
	}
	table, err := h.svc.GetTable(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "get table", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Create handles POST /api/tables
func (h *TableHandler) Create(c *gin.Context) {
	var req planner.TableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	table, err := h.svc.AddTable(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "create table", err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// Update handles PATCH /api/tables/:id. Sending "guests" replaces the
// table's guest set and re-syncs every guest's table field.
func (h *TableHandler) Update(c *gin.Context) {
	id, ok := pathID(c, models.EntityTable)
	if !ok {
		return
	}
	var req planner.TablePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	table, err := h.svc.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, "update table", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Delete handles DELETE /api/tables/:id
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.EntityTable)
	if !ok {
		return
	}
	if err := h.svc.RemoveTable(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, "delete table", err)
		return
	}
	deleted(c)
}
