package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
)

// MockAttributeService is a mock implementation of the tag or ingredient
// service. Kind is fixed at construction.
type MockAttributeService struct {
	mock.Mock
	kind models.AttributeKind
}

var _ service.IAttributeService = (*MockAttributeService)(nil)

func NewMockAttributeService(kind models.AttributeKind) *MockAttributeService {
	return &MockAttributeService{kind: kind}
}

func (m *MockAttributeService) Kind() models.AttributeKind {
	return m.kind
}

func (m *MockAttributeService) ListAttributes(ctx context.Context, owner uuid.UUID, assignedOnly bool) ([]models.Attribute, error) {
	args := m.Called(ctx, owner, assignedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attribute), args.Error(1)
}

func (m *MockAttributeService) GetAttribute(ctx context.Context, owner uuid.UUID, id uint) (*models.Attribute, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attribute), args.Error(1)
}

func (m *MockAttributeService) CreateAttribute(ctx context.Context, owner uuid.UUID, name string) (*models.Attribute, bool, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Attribute), args.Bool(1), args.Error(2)
}

func (m *MockAttributeService) RenameAttribute(ctx context.Context, owner uuid.UUID, id uint, name string) (*models.Attribute, error) {
	args := m.Called(ctx, owner, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attribute), args.Error(1)
}

func (m *MockAttributeService) DeleteAttribute(ctx context.Context, owner uuid.UUID, id uint) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
