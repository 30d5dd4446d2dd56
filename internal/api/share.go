package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/auth"
	"github.com/lalith-99/eventboard/internal/middleware"
	"github.com/lalith-99/eventboard/internal/planner"
)

// OverviewService is the read-only view shared links expose.
type OverviewService interface {
	Overview(ctx context.Context) (*planner.Overview, error)
}

// ShareConfig controls share link issuance. An empty Secret disables it.
type ShareConfig struct {
	Secret    string
	TTL       time.Duration
	PublicURL string
}

// ShareHandler issues share links and serves the overview behind them.
//
// Why does the shared route only return the overview?
//   - The link is a bearer token that ends up in mail clients and chat
//     previews. It must not grant writes, so its scope is read and the only
//     route it opens is a GET.
type ShareHandler struct {
	svc    OverviewService
	cfg    ShareConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewShareHandler(svc OverviewService, cfg ShareConfig, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{svc: svc, cfg: cfg, logger: logger, now: time.Now}
}

type shareRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,required,email"`
}

type shareResponse struct {
	Token     string    `json:"token"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create handles POST /api/share and returns a read-only overview link for
// the given recipients. Delivering the link is up to the caller.
func (h *ShareHandler) Create(c *gin.Context) {
	// Step 1: Without a secret no link could be verified later, so the
	// endpoint behaves as if it did not exist.
	if h.cfg.Secret == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "sharing is disabled"})
		return
	}

	// Step 2: Every recipient must look like an email address. The binding
	// tag rejects the request as a whole when one does not.
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Step 3: Sign. The jti is logged so a leaked link can be traced back
	// to the request that created it.
	token, claims, err := auth.GenerateShareToken(req.Emails, h.cfg.Secret, h.cfg.TTL, h.now())
	if err != nil {
		writeError(c, h.logger, "create share link", err)
		return
	}

	h.logger.Info("share link issued",
		zap.String("jti", claims.ID),
		zap.Int("recipients", len(req.Emails)),
	)
	c.JSON(http.StatusCreated, shareResponse{
		Token:     token,
		Link:      h.cfg.PublicURL + "/api/shared/overview?token=" + url.QueryEscape(token),
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// Overview handles GET /api/shared/overview behind middleware.ShareToken.
func (h *ShareHandler) Overview(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "load overview", err)
		return
	}
	if claims := middleware.GetShareClaims(c); claims != nil {
		h.logger.Debug("shared overview served", zap.String("jti", claims.ID))
	}
	c.JSON(http.StatusOK, ov)
}
