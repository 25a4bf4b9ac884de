package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Yitzhakza/electic/internal/interfaces/http/dto"
)

func TestBodyLimit(t *testing.T) {
	overrideJSON := `{"title_he":"שטיחי רצפה לטסלה","coupon_code":"EV10"}`

	tests := []struct {
		name          string
		limit         int64
		method        string
		body          string
		contentLength int64 // -1 streams the body without a declared length
		wantStatus    int
		wantBody      string
	}{
		{"override within limit", 1024, http.MethodPut, overrideJSON, int64(len(overrideJSON)), http.StatusOK, "read"},
		{"declared length over limit", 16, http.MethodPut, overrideJSON, int64(len(overrideJSON)), http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"streamed body over limit", 16, http.MethodPut, overrideJSON, -1, http.StatusRequestEntityTooLarge, "cut"},
		{"bodyless GET", 1, http.MethodGet, "", 0, http.StatusOK, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(BodyLimit(tt.limit))
			r.Handle(tt.method, "/api/v1/admin/products/:id/override", func(c *gin.Context) {
				_, err := io.ReadAll(c.Request.Body)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.String(http.StatusRequestEntityTooLarge, "cut")
					return
				}
				c.String(http.StatusOK, "read")
			})

			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/api/v1/admin/products/1/override", body)
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestDefaultBodyLimit(t *testing.T) {
	assert.Equal(t, int64(1<<20), DefaultBodyLimit)
}
