package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/pantry/backend/internal/service"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantFields map[string]string
	}{
		{
			name:       "validation",
			err:        service.ValidationErrors{{Field: "title", Message: "this field is required"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
			wantFields: map[string]string{"title": "this field is required"},
		},
		{
			name:       "single validation error",
			err:        service.ValidationError{Field: "image", Message: "bad"},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
			wantFields: map[string]string{"image": "bad"},
		},
		{
			name:       "not found",
			err:        fmt.Errorf("recipe 3: %w", service.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "not found",
		},
		{
			name:       "unauthenticated",
			err:        service.ErrUnauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantError:  service.ErrUnauthenticated.Error(),
		},
		{
			name:       "bad credentials",
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusBadRequest,
			wantError:  service.ErrInvalidCredentials.Error(),
		},
		{
			name:       "email taken",
			err:        service.ErrEmailTaken,
			wantStatus: http.StatusBadRequest,
			wantError:  service.ErrEmailTaken.Error(),
		},
		{
			name:       "unexpected",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			router := gin.New()
			router.Use(ErrorHandler(zap.New(core)))
			router.GET("/", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantFields, body.Fields)

			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, 1, logs.Len())
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}

	t.Run("written responses are left alone", func(t *testing.T) {
		router := gin.New()
		router.Use(ErrorHandler(zap.NewNop()))
		router.GET("/", func(c *gin.Context) {
			_ = c.Error(errors.New("logged elsewhere"))
			c.JSON(http.StatusTeapot, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}
