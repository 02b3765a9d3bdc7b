package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
)

// SyncService is the part of app.SyncService the handlers use.
type SyncService interface {
	Status(ctx context.Context) domain.SyncStatus
	Push(ctx context.Context) error
	Pull(ctx context.Context) (*app.PullResult, error)
	Provision(ctx context.Context, token string) (string, error)
	Disconnect(ctx context.Context) error
}

// SyncHandler serves the admin remote backup routes.
type SyncHandler struct {
	service SyncService
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(service SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// Status handles GET /api/v1/admin/sync
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.service.Status(c.Request.Context())))
}

// Push handles POST /api/v1/admin/sync/push. It answers with the status
// after the push.
func (h *SyncHandler) Push(c *gin.Context) {
	if err := h.service.Push(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.Status(c)
}

// Pull handles POST /api/v1/admin/sync/pull
func (h *SyncHandler) Pull(c *gin.Context) {
	res, err := h.service.Pull(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PullResponse{
		Topics:  res.Topics,
		Quotes:  res.Quotes,
		Version: res.Version,
	})
}

// Provision handles POST /api/v1/admin/sync/provision
func (h *SyncHandler) Provision(c *gin.Context) {
	var req dto.ProvisionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	id, err := h.service.Provision(c.Request.Context(), req.Token)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ProvisionResponse{DocumentID: id})
}

// Disconnect handles DELETE /api/v1/admin/sync
func (h *SyncHandler) Disconnect(c *gin.Context) {
	if err := h.service.Disconnect(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterSyncRoutes registers the sync routes on the admin group rg.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/sync")
	s.GET("", h.Status)
	s.DELETE("", h.Disconnect)
	s.POST("/push", h.Push)
	s.POST("/pull", h.Pull)
	s.POST("/provision", h.Provision)
}
