package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/planner"
)

// writeError maps planner errors to status codes. Anything unexpected is
// logged and answered with a generic 500 carrying only op.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var (
		verr *planner.ValidationError
		nerr *planner.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, gin.H{"error": nerr.Error()})
	default:
		logger.Error("failed to "+op, zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

// bindError answers a body that could not be decoded or failed its binding
// tags.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pathID parses the :id parameter.
//
// Why 404 and not 400 for a malformed id?
//   - Ids are opaque to clients. "/api/guests/42" names no guest, the same
//     as an unknown well-formed id, so both get the same answer.
func pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": (&planner.NotFoundError{Entity: entity, ID: raw}).Error()})
		return uuid.Nil, false
	}
	return id, true
}

func deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
