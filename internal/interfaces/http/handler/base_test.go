package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from request context", func(t *testing.T) {
		c, _ := newTestContext()
		ctx, _ := logger.WithRequestID(c.Request.Context(), zap.NewNop(), "ctx-id")
		c.Request = c.Request.WithContext(ctx)
		c.Request.Header.Set(logger.RequestIDHeader, "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set(logger.RequestIDHeader, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty", func(t *testing.T) {
		c, _ := newTestContext()
		assert.Empty(t, getRequestID(c))
	})
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		c, w := newTestContext()
		h.Success(c, gin.H{"a": 1})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("success with meta", func(t *testing.T) {
		c, w := newTestContext()
		h.SuccessWithMeta(c, []int{1, 2}, 61, 2, 30)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		assert.Equal(t, 2, resp.Meta.Page)
	})

	t.Run("created", func(t *testing.T) {
		c, w := newTestContext()
		h.Created(c, gin.H{})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content", func(t *testing.T) {
		r := gin.New()
		r.DELETE("/x", h.NoContent)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerBindError(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.POST("/queries", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		var body struct {
			Query string `json:"query" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BindError(c, err)
			return
		}
		h.Success(c, body.Query)
	})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"oversized body", `{"query":"` + strings.Repeat("x", 64) + `"}`, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"missing field", `{}`, http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/queries", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"query not found", catalog.ErrQueryNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Search query not found"},
		{"run not found wrapped", fmt.Errorf("load run: %w", syncrun.ErrSyncRunNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "Sync run not found"},
		{"sync in progress", syncrun.ErrSyncInProgress, http.StatusConflict, dto.ErrCodeSyncInProgress, "Another sync run is in progress"},
		{"unknown reference", catalog.ErrUnknownReference, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Brand or category does not exist"},
		{"terminal run", syncrun.ErrSyncRunTerminal, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Sync run has already finished"},
		{"generic not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"generic invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Operation not allowed in current state"},
		{"generic duplicate", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, "Resource already exists"},
		{"generic invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid input provided"},
		{"unmapped domain code", shared.NewDomainError("SOMETHING_ODD", "odd"), http.StatusInternalServerError, "SOMETHING_ODD", "odd"},
		{"plain error hides message", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}

	t.Run("nil writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerPathID(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/runs/:id", func(c *gin.Context) {
		id, ok := h.pathID(c, "sync run")
		if !ok {
			return
		}
		h.Success(c, id.String())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid sync run ID format")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/7f1c3c52-2f57-4d1e-9b0e-6a3f0c2a9d11", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
