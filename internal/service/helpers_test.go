package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/testhelpers"
)

type memoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{objects: map[string][]byte{}}
}

func (m *memoryImageStore) Save(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryImageStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImageStore) URL(key string) string {
	return "/media/" + key
}

func (m *memoryImageStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memoryImageStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type recipeFixture struct {
	db      *gorm.DB
	recipes *service.RecipeService
	tags    *service.AttributeService
	ings    *service.AttributeService
	images  *memoryImageStore
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	logger := zap.NewNop()
	reconciler := service.NewReconciler(logger)
	images := newMemoryImageStore()
	return &recipeFixture{
		db:      db,
		recipes: service.NewRecipeService(db, reconciler, images, logger),
		tags:    service.NewAttributeService(db, models.TagKind, reconciler, logger),
		ings:    service.NewAttributeService(db, models.IngredientKind, reconciler, logger),
		images:  images,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func sampleInput(title string) service.RecipeInput {
	return service.RecipeInput{
		Title:       strPtr(title),
		TimeMinutes: intPtr(10),
		Price:       strPtr("5.00"),
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func tagNames(r *models.Recipe) []string {
	names := make([]string, len(r.Tags))
	for i, tag := range r.Tags {
		names[i] = tag.Name
	}
	return names
}

func ingredientNames(r *models.Recipe) []string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return names
}

func recipeIDs(recipes []models.Recipe) []uint {
	ids := make([]uint, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	return ids
}
