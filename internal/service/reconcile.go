package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/pantry/backend/internal/models"
)

const maxAttributeNameLength = 255

var ownerNameConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
	DoNothing: true,
}

// Reconciler turns attribute names referenced by a recipe write into stored
// rows owned by the writer, and rewrites a recipe's association sets.
//
// Names are matched exactly: no trimming and no case folding.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger.Named("reconciler")}
}

// Resolve returns one row per distinct name, creating the ones the owner does
// not have yet. Rows come back in order of first appearance. Inserts happen in
// name order so concurrent writers lock the unique index in the same order.
func (r *Reconciler) Resolve(tx *gorm.DB, kind models.AttributeKind, owner uuid.UUID, names []string) ([]models.Attribute, error) {
	distinct := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}

	sorted := append([]string(nil), distinct...)
	sort.Strings(sorted)
	byName := make(map[string]models.Attribute, len(sorted))
	for _, name := range sorted {
		attr, created, err := r.GetOrCreate(tx, kind, owner, name)
		if err != nil {
			return nil, err
		}
		if created {
			r.logger.Debug("created attribute",
				zap.String("kind", kind.Name),
				zap.Uint("id", attr.ID),
				zap.String("owner", owner.String()),
			)
		}
		byName[name] = attr
	}

	out := make([]models.Attribute, 0, len(distinct))
	for _, name := range distinct {
		out = append(out, byName[name])
	}
	return out, nil
}

// GetOrCreate inserts (owner, name) unless it already exists and returns the
// stored row. The insert relies on the (user_id, name) unique index: losing a
// race against a concurrent writer is not an error, the winner's row is read
// back instead.
func (r *Reconciler) GetOrCreate(tx *gorm.DB, kind models.AttributeKind, owner uuid.UUID, name string) (models.Attribute, bool, error) {
	if err := validateAttributeName(name); err != nil {
		return models.Attribute{}, false, err
	}

	attr := models.Attribute{UserID: owner, Name: name}
	var inserted bool
	// The savepoint keeps an outer postgres transaction usable if the insert
	// still fails on the unique index.
	err := tx.Transaction(func(sp *gorm.DB) error {
		res := sp.Table(kind.Table).Clauses(ownerNameConflict).Create(&attr)
		inserted = res.RowsAffected > 0
		return res.Error
	})
	switch {
	case err == nil && inserted:
		return attr, true, nil
	case err != nil && !errors.Is(err, gorm.ErrDuplicatedKey):
		return models.Attribute{}, false, fmt.Errorf("failed to create %s %q: %w", kind.Name, name, err)
	}

	var existing models.Attribute
	if err := tx.Table(kind.Table).
		Where("user_id = ? AND name = ?", owner, name).
		First(&existing).Error; err != nil {
		return models.Attribute{}, false, fmt.Errorf("failed to fetch %s %q after conflict: %w", kind.Name, name, err)
	}
	return existing, false, nil
}

// ReplaceAssociations makes the recipe's kind associations exactly attrs.
// Callers run it inside the transaction that owns the recipe row lock so
// readers see either the old set or the new one.
func (r *Reconciler) ReplaceAssociations(tx *gorm.DB, kind models.AttributeKind, recipe *models.Recipe, attrs []models.Attribute) error {
	for _, a := range attrs {
		if a.UserID != recipe.UserID {
			r.logger.Error("attribute owner mismatch",
				zap.String("kind", kind.Name),
				zap.Uint("attribute_id", a.ID),
				zap.Uint("recipe_id", recipe.ID),
			)
			return fmt.Errorf("%s %d on recipe %d: %w", kind.Name, a.ID, recipe.ID, ErrConstraint)
		}
	}

	if err := tx.Exec(
		"DELETE FROM "+kind.JoinTable+" WHERE recipe_id = ?", recipe.ID,
	).Error; err != nil {
		return fmt.Errorf("failed to clear %s associations: %w", kind.Name, err)
	}

	insert := "INSERT INTO " + kind.JoinTable + " (recipe_id, " + kind.JoinColumn + ") VALUES (?, ?)"
	for _, a := range attrs {
		if err := tx.Exec(insert, recipe.ID, a.ID).Error; err != nil {
			return fmt.Errorf("failed to associate %s %d: %w", kind.Name, a.ID, err)
		}
	}
	return nil
}

// Reconcile resolves names and replaces the association set in one step.
// A nil names slice leaves the associations untouched; an empty one clears them.
func (r *Reconciler) Reconcile(tx *gorm.DB, kind models.AttributeKind, recipe *models.Recipe, names []string) error {
	if names == nil {
		return nil
	}
	attrs, err := r.Resolve(tx, kind, recipe.UserID, names)
	if err != nil {
		return err
	}
	return r.ReplaceAssociations(tx, kind, recipe, attrs)
}

func validateAttributeName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ValidationError{Field: "name", Message: "this field may not be blank"}
	case utf8.RuneCountInString(name) > maxAttributeNameLength:
		return ValidationError{Field: "name", Message: fmt.Sprintf("ensure this field has no more than %d characters", maxAttributeNameLength)}
	}
	return nil
}
