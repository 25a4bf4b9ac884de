package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/interfaces/http/dto"
)

type createQueryInput struct {
	QueryText string   `json:"queryText" binding:"required,min=2,max=200"`
	BrandID   string   `json:"brandId" binding:"required,uuid"`
	Priority  int      `json:"priority" binding:"gte=0,lte=100"`
	QueryIDs  []string `json:"queryIds" binding:"omitempty,max=2"`
}

func newValidationEngine() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.POST("/api/v1/admin/queries", func(c *gin.Context) {
		var in createQueryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestHandleValidationError(t *testing.T) {
	r := newValidationEngine()

	t.Run("reports json field names", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/queries",
			strings.NewReader(`{"queryText":"x","brandId":"nope","priority":101}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(logger.RequestIDHeader, "req-7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-7", resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"queryText": "Must be at least 2 characters",
			"brandId":   "Invalid UUID format",
			"priority":  "Must be less than or equal to 100",
		}, fields)
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/queries", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
		assert.NotContains(t, w.Body.String(), "details")
	})

	t.Run("valid input passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/queries",
			strings.NewReader(`{"queryText":"tesla model 3 mat","brandId":"7f1c3c52-2f57-4d1e-9b0e-6a3f0c2a9d11","priority":5}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type sample struct {
		Required string   `validate:"required"`
		Min      string   `validate:"min=5"`
		Max      string   `validate:"max=3"`
		MaxItems []string `validate:"max=1"`
		UUID     string   `validate:"uuid"`
		OneOf    string   `validate:"oneof=manual cron"`
		GT       int      `validate:"gt=0"`
		URL      string   `validate:"url"`
	}

	err := validator.New().Struct(sample{
		Min:      "ab",
		Max:      "abcd",
		MaxItems: []string{"a", "b"},
		UUID:     "x",
		OneOf:    "hourly",
		URL:      "not a url",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	got := map[string]string{}
	for _, e := range verrs {
		got[e.Field()] = validationMessage(e)
	}
	assert.Equal(t, map[string]string{
		"Required": "This field is required",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 3 characters",
		"MaxItems": "Must contain at most 1 items",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: manual cron",
		"GT":       "Must be greater than 0",
		"URL":      "Invalid URL format",
	}, got)
}
