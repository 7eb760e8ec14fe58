package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/storage"
	"github.com/pageza/pantry/backend/internal/testhelpers"
)

// TestEnv holds a router wired to real services over an in-memory database
type TestEnv struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService *service.AuthService
	Images      *storage.LocalStore
}

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	logger := zap.NewNop()
	authService := service.NewAuthService(db, "test-secret", time.Hour, logger)
	images, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	router := newTestEngine(logger)
	RegisterRoutes(router, db, NewServices(db, authService, images, logger), nil)

	return &TestEnv{
		Router:      router,
		DB:          db,
		AuthService: authService,
		Images:      images,
	}
}

func newTestEngine(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.ErrorHandler(logger))
	return router
}

// CreateTestUserAndToken stores a user and signs a token for it
func CreateTestUserAndToken(t *testing.T, env *TestEnv, email string) (uuid.UUID, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, env.DB, email)
	token, _, err := env.AuthService.IssueToken(user)
	require.NoError(t, err)
	return user.ID, token
}

// PerformRequestWithToken sends body as JSON. A nil body sends no payload
// and an empty token sends no Authorization header.
func PerformRequestWithToken(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(body)
			reader = bytes.NewBuffer(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// PerformUpload posts data as the multipart field "image"
func PerformUpload(t *testing.T, router *gin.Engine, path, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != nil {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "value"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// names pulls the "name" of every object in a decoded JSON list
func names(list interface{}) []string {
	items, _ := list.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		name, _ := m["name"].(string)
		out = append(out, name)
	}
	return out
}

// ids pulls the numeric "id" of every object in a decoded JSON list
func ids(list interface{}) []uint {
	items, _ := list.([]interface{})
	out := make([]uint, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		id, _ := m["id"].(float64)
		out = append(out, uint(id))
	}
	return out
}
