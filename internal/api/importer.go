package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/importer"
)

// RowImporter is implemented by *importer.Importer.
type RowImporter interface {
	Import(ctx context.Context, rows []importer.Row, opts importer.Options) (*importer.Result, error)
}

// ImportHandler serves POST /api/guests/import.
//
// Why JSON rows and not a file upload?
//   - The dashboard parses the sheet in the browser and shows the column
//     mapping before sending. The server only sees mapped rows.
//   - CSV files go through "eventctl import", which reads the same rows.
type ImportHandler struct {
	im     RowImporter
	logger *zap.Logger
}

func NewImportHandler(im RowImporter, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{im: im, logger: logger}
}

type importRequest struct {
	Rows   []importer.Row `json:"rows" binding:"required"`
	DryRun bool           `json:"dryRun"`
}

// Import handles POST /api/guests/import. Rejected rows are reported in the
// body; the request only fails when the import could not start.
func (h *ImportHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.im.Import(c.Request.Context(), req.Rows, importer.Options{DryRun: req.DryRun})
	if err != nil {
		writeError(c, h.logger, "import guests", err)
		return
	}
	if !res.OK() {
		h.logger.Info("import finished with rejected rows",
			zap.Int("rows", len(req.Rows)),
			zap.Int("rejected", len(res.Errors)),
		)
	}
	c.JSON(http.StatusOK, res)
}
