package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/pantry/backend/internal/models"
)

// AttributeService handles tag or ingredient operations, depending on kind.
type AttributeService struct {
	db         *gorm.DB
	kind       models.AttributeKind
	reconciler *Reconciler
	logger     *zap.Logger
}

// NewAttributeService creates a new AttributeService instance
func NewAttributeService(db *gorm.DB, kind models.AttributeKind, reconciler *Reconciler, logger *zap.Logger) *AttributeService {
	return &AttributeService{
		db:         db,
		kind:       kind,
		reconciler: reconciler,
		logger:     logger.Named(kind.Name),
	}
}

func (s *AttributeService) Kind() models.AttributeKind {
	return s.kind
}

// ListAttributes lists owner's attributes in reverse name order. With
// assignedOnly set, only attributes used by at least one of owner's recipes
// are returned.
func (s *AttributeService) ListAttributes(ctx context.Context, owner uuid.UUID, assignedOnly bool) ([]models.Attribute, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	q := s.db.WithContext(ctx).Table(s.kind.Table).Where("user_id = ?", owner)
	if assignedOnly {
		join := s.kind.JoinTable
		sub := q.Session(&gorm.Session{NewDB: true}).Table(join).
			Select(join+"."+s.kind.JoinColumn).
			Joins("JOIN recipes ON recipes.id = "+join+".recipe_id").
			Where("recipes.user_id = ?", owner)
		q = q.Where("id IN (?)", sub)
	}

	var attrs []models.Attribute
	if err := q.Order("name DESC").Find(&attrs).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", s.kind.Name, err)
	}
	return attrs, nil
}

// GetAttribute retrieves one of owner's attributes
func (s *AttributeService) GetAttribute(ctx context.Context, owner uuid.UUID, id uint) (*models.Attribute, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return s.findOwned(s.db.WithContext(ctx), owner, id, false)
}

// CreateAttribute returns owner's attribute called name, creating it when it
// does not exist. The bool reports whether a row was created.
func (s *AttributeService) CreateAttribute(ctx context.Context, owner uuid.UUID, name string) (*models.Attribute, bool, error) {
	if owner == uuid.Nil {
		return nil, false, ErrUnauthenticated
	}
	attr, created, err := s.reconciler.GetOrCreate(s.db.WithContext(ctx), s.kind, owner, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("created", zap.Uint("id", attr.ID), zap.String("owner", owner.String()))
	}
	return &attr, created, nil
}

// RenameAttribute changes the name of one of owner's attributes. Taking a
// name the owner already uses is rejected.
func (s *AttributeService) RenameAttribute(ctx context.Context, owner uuid.UUID, id uint, name string) (*models.Attribute, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := validateAttributeName(name); err != nil {
		return nil, err
	}

	var renamed *models.Attribute
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attr, err := s.findOwned(tx, owner, id, true)
		if err != nil {
			return err
		}
		if attr.Name == name {
			renamed = attr
			return nil
		}

		var taken int64
		if err := tx.Table(s.kind.Table).
			Where("user_id = ? AND name = ? AND id <> ?", owner, name, id).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check %s name: %w", s.kind.Name, err)
		}
		if taken > 0 {
			return s.nameTaken()
		}

		now := time.Now()
		err = tx.Table(s.kind.Table).
			Where("id = ?", id).
			Updates(map[string]interface{}{"name": name, "updated_at": now}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.nameTaken()
		}
		if err != nil {
			return fmt.Errorf("failed to rename %s: %w", s.kind.Name, err)
		}
		attr.Name = name
		attr.UpdatedAt = now
		renamed = attr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// DeleteAttribute removes one of owner's attributes and detaches it from
// every recipe. The recipes themselves are kept.
func (s *AttributeService) DeleteAttribute(ctx context.Context, owner uuid.UUID, id uint) error {
	if owner == uuid.Nil {
		return ErrUnauthenticated
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findOwned(tx, owner, id, true); err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM "+s.kind.JoinTable+" WHERE "+s.kind.JoinColumn+" = ?", id,
		).Error; err != nil {
			return fmt.Errorf("failed to detach %s: %w", s.kind.Name, err)
		}
		if err := tx.Table(s.kind.Table).Where("id = ?", id).Delete(&models.Attribute{}).Error; err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.kind.Name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted", zap.Uint("id", id), zap.String("owner", owner.String()))
	return nil
}

func (s *AttributeService) findOwned(db *gorm.DB, owner uuid.UUID, id uint, lock bool) (*models.Attribute, error) {
	q := db.Table(s.kind.Table)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var attr models.Attribute
	err := q.Where("id = ? AND user_id = ?", id, owner).First(&attr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.kind.Name, err)
	}
	return &attr, nil
}

func (s *AttributeService) nameTaken() error {
	return ValidationError{Field: "name", Message: fmt.Sprintf("%s with this name already exists", s.kind.Name)}
}
