package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
)

const formatLegacy = "legacy"

// SnapshotHandler serves whole-store export and import.
type SnapshotHandler struct {
	service ContentService
	now     func() time.Time
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(service ContentService) *SnapshotHandler {
	return &SnapshotHandler{service: service, now: time.Now}
}

// Export handles GET /api/v1/admin/snapshot. The body is served as a
// download named after the current date.
func (h *SnapshotHandler) Export(c *gin.Context) {
	snap, err := h.service.ExportSnapshot(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	data, err := domain.EncodeSnapshot(snap)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, SnapshotFileName(h.now())))
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/v1/admin/snapshot. The body replaces the store;
// with ?format=legacy it is a legacy document whose new rows are added.
func (h *SnapshotHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "snapshot exceeds the request size limit")
			return
		}

		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "unreadable request body")

		return
	}

	var res *app.ImportResult

	switch c.Query("format") {
	case formatLegacy:
		var d domain.Dataset

		d, err = domain.DecodeLegacy(data)
		if err == nil {
			res, err = h.service.ImportLegacy(c.Request.Context(), d)
		}
	case "", "snapshot":
		var snap domain.Snapshot

		snap, err = domain.DecodeSnapshot(data)
		if err == nil {
			res, err = h.service.ImportSnapshot(c.Request.Context(), snap)
		}
	default:
		err = domain.NewValidationError("format", "must be snapshot or legacy")
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewImportResponse(res))
}

// RegisterSnapshotRoutes registers the snapshot routes on the admin group rg.
func (h *SnapshotHandler) RegisterSnapshotRoutes(rg *gin.RouterGroup) {
	rg.GET("/snapshot", h.Export)
	rg.POST("/snapshot", h.Import)
}

// SnapshotFileName is the download name of a snapshot taken at t.
func SnapshotFileName(t time.Time) string {
	return "askadit-db-" + t.Format(time.DateOnly) + ".json"
}
