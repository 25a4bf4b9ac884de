package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/Yitzhakza/electic/internal/application/catalog"
)

// QueryManager manages the search queries a sync fans out over
type QueryManager interface {
	List(ctx context.Context) ([]catalogapp.QueryResponse, error)
	Create(ctx context.Context, req catalogapp.CreateQueryRequest) (*catalogapp.QueryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateQueryRequest) (*catalogapp.QueryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QueryHandler handles admin search query endpoints
type QueryHandler struct {
	BaseHandler
	queries QueryManager
}

// NewQueryHandler creates a new QueryHandler
func NewQueryHandler(queries QueryManager) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// List returns every search query with its brand and category names
func (h *QueryHandler) List(c *gin.Context) {
	queries, err := h.queries.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, queries)
}

// Create adds a search query
func (h *QueryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	query, err := h.queries.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, query)
}

// Update changes the text or enabled flag of a query
func (h *QueryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "query")
	if !ok {
		return
	}

	var req catalogapp.UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	query, err := h.queries.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, query)
}

// Delete removes a query
func (h *QueryHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "query")
	if !ok {
		return
	}
	if err := h.queries.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
