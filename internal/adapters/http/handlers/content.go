package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/logging"
)

// ContentService is the part of app.ContentService the handlers use.
type ContentService interface {
	List(ctx context.Context, section domain.Section) (*app.Listing, error)
	Get(ctx context.Context, section domain.Section, id string) (*app.Item, error)
	Create(ctx context.Context, section domain.Section, e app.Entry) (*app.Mutation, error)
	Update(ctx context.Context, section domain.Section, id string, e app.Entry, mode domain.UpdateMode) (*app.Mutation, error)
	Delete(ctx context.Context, section domain.Section, id string) (*app.Mutation, error)
	DeleteTopicByID(ctx context.Context, id string) (*app.Mutation, error)
	DefaultUpdateMode() domain.UpdateMode

	ExportSnapshot(ctx context.Context) (domain.Snapshot, error)
	ImportSnapshot(ctx context.Context, snap domain.Snapshot) (*app.ImportResult, error)
	ImportLegacy(ctx context.Context, d domain.Dataset) (*app.ImportResult, error)
}

// ContentHandler serves the reader routes and the admin content routes.
type ContentHandler struct {
	service ContentService
}

// NewContentHandler creates a content handler.
func NewContentHandler(service ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// ListTopics handles GET /api/v1/topics?section=. An unknown section is a
// 400; a failing store yields an empty list.
func (h *ContentHandler) ListTopics(c *gin.Context) {
	section, err := domain.ParseTopicSection(c.Query("section"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTopicListResponse(section, h.listOrEmpty(c, section).Topics))
}

// GetTopic handles GET /api/v1/topics/:section/:id
func (h *ContentHandler) GetTopic(c *gin.Context) {
	section, err := domain.ParseTopicSection(c.Param("section"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	item, err := h.service.Get(c.Request.Context(), section, c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTopicResponse(*item.Topic))
}

// ListQuotes handles GET /api/v1/quotes
func (h *ContentHandler) ListQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewQuoteListResponse(h.listOrEmpty(c, domain.SectionQuotes).Quotes))
}

// listOrEmpty lists section for readers. A store failure is logged and
// served as an empty listing.
func (h *ContentHandler) listOrEmpty(c *gin.Context, section domain.Section) *app.Listing {
	listing, err := h.service.List(c.Request.Context(), section)
	if err == nil {
		return listing
	}

	logging.FromContext(c.Request.Context()).Error("listing failed, serving empty list",
		slog.String("section", section.String()),
		slog.Any("error", err),
	)

	return &app.Listing{}
}

// GetQuote handles GET /api/v1/quotes/:id
func (h *ContentHandler) GetQuote(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), domain.SectionQuotes, c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(*item.Quote))
}

// CreateTopic handles POST /api/v1/admin/topics. The section comes from
// the body or the section query parameter. The quotes section routes the
// entry to the quote table.
func (h *ContentHandler) CreateTopic(c *gin.Context) {
	var req dto.EntryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	section, err := domain.ParseSection(firstNonEmpty(req.Section, c.Query("section")))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.create(c, section, &req)
}

// UpdateTopic handles PUT /api/v1/admin/topics and
// PUT /api/v1/admin/topics/:section/:id. Path values win over the body,
// which wins over the query string. ?mode= picks replace or merge.
func (h *ContentHandler) UpdateTopic(c *gin.Context) {
	var req dto.EntryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	section, err := domain.ParseSection(firstNonEmpty(c.Param("section"), req.Section, c.Query("section")))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.update(c, section, firstNonEmpty(c.Param("id"), req.ID, c.Query("id")), &req)
}

// DeleteTopic handles DELETE /api/v1/admin/topics?id=&section= and
// DELETE /api/v1/admin/topics/:section/:id. Without a section the id is
// removed from every topic section.
func (h *ContentHandler) DeleteTopic(c *gin.Context) {
	id := firstNonEmpty(c.Param("id"), c.Query("id"))
	name := firstNonEmpty(c.Param("section"), c.Query("section"))

	var (
		m   *app.Mutation
		err error
	)

	if name == "" {
		m, err = h.service.DeleteTopicByID(c.Request.Context(), id)
	} else {
		var section domain.Section

		section, err = domain.ParseSection(name)
		if err == nil {
			m, err = h.service.Delete(c.Request.Context(), section, id)
		}
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMutationResponse(m))
}

// CreateQuote handles POST /api/v1/admin/quotes
func (h *ContentHandler) CreateQuote(c *gin.Context) {
	var req dto.EntryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	h.create(c, domain.SectionQuotes, &req)
}

// UpdateQuote handles PUT /api/v1/admin/quotes and PUT /api/v1/admin/quotes/:id
func (h *ContentHandler) UpdateQuote(c *gin.Context) {
	var req dto.EntryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	h.update(c, domain.SectionQuotes, firstNonEmpty(c.Param("id"), req.ID, c.Query("id")), &req)
}

// DeleteQuote handles DELETE /api/v1/admin/quotes?id= and DELETE /api/v1/admin/quotes/:id
func (h *ContentHandler) DeleteQuote(c *gin.Context) {
	m, err := h.service.Delete(c.Request.Context(), domain.SectionQuotes, firstNonEmpty(c.Param("id"), c.Query("id")))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMutationResponse(m))
}

func (h *ContentHandler) create(c *gin.Context, section domain.Section, req *dto.EntryRequest) {
	m, err := h.service.Create(c.Request.Context(), section, req.Entry())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMutationResponse(m))
}

func (h *ContentHandler) update(c *gin.Context, section domain.Section, id string, req *dto.EntryRequest) {
	mode, err := domain.ParseUpdateMode(c.Query("mode"), h.service.DefaultUpdateMode())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	m, err := h.service.Update(c.Request.Context(), section, id, req.Entry(), mode)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMutationResponse(m))
}

// RegisterPublicRoutes registers the reader routes on rg.
func (h *ContentHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/topics", h.ListTopics)
	rg.GET("/topics/:section/:id", h.GetTopic)
	rg.GET("/quotes", h.ListQuotes)
	rg.GET("/quotes/:id", h.GetQuote)
}

// RegisterAdminRoutes registers the content mutation routes on rg, which
// the caller gates.
func (h *ContentHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	topics := rg.Group("/topics")
	topics.POST("", h.CreateTopic)
	topics.PUT("", h.UpdateTopic)
	topics.DELETE("", h.DeleteTopic)
	topics.PUT("/:section/:id", h.UpdateTopic)
	topics.DELETE("/:section/:id", h.DeleteTopic)

	quotes := rg.Group("/quotes")
	quotes.POST("", h.CreateQuote)
	quotes.PUT("", h.UpdateQuote)
	quotes.DELETE("", h.DeleteQuote)
	quotes.PUT("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
