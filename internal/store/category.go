package store

import (
	"context"
	"errors"
	"fmt"

	"myfinance/internal/models"
	"myfinance/internal/util"

	"gorm.io/gorm"
)

// CategoryPatch lists the fields to change. Name is expected normalized.
type CategoryPatch struct {
	Name  *string
	Color util.Optional[string]
}

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func duplicateCategory(name string) error {
	return util.Conflict(fmt.Sprintf("category %q already exists", name))
}

func categoryNotFound(id uint) error {
	return util.NotFound(fmt.Sprintf("category %d not found", id))
}

// Create adds a category for owner. name must already be normalized.
func (s *CategoryStore) Create(ctx context.Context, owner uint, name string, color *string) (*models.Category, error) {
	taken, err := s.nameTaken(ctx, owner, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateCategory(name)
	}

	cat := models.Category{UserID: owner, Name: name, Color: color}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateCategory(name)
		}
		return nil, util.Internal("failed to create category", err)
	}
	return &cat, nil
}

// List returns owner's categories sorted by name.
func (s *CategoryStore) List(ctx context.Context, owner uint) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("name ASC").
		Find(&cats).Error; err != nil {
		return nil, util.Internal("failed to list categories", err)
	}
	return cats, nil
}

func (s *CategoryStore) Get(ctx context.Context, id, owner uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoryNotFound(id)
		}
		return nil, util.Internal("failed to look up category", err)
	}
	return &cat, nil
}

// FindByIDs returns owner's categories among ids, keyed by id.
func (s *CategoryStore) FindByIDs(ctx context.Context, owner uint, ids []uint) (map[uint]models.Category, error) {
	out := make(map[uint]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cats []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", owner, ids).
		Find(&cats).Error; err != nil {
		return nil, util.Internal("failed to look up categories", err)
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

// Update applies patch. A new name is checked against owner's other
// categories.
func (s *CategoryStore) Update(ctx context.Context, id, owner uint, patch CategoryPatch) (*models.Category, error) {
	cat, err := s.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != cat.Name {
		taken, err := s.nameTaken(ctx, owner, *patch.Name, cat.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateCategory(*patch.Name)
		}
		cat.Name = *patch.Name
	}
	if patch.Color.Set {
		cat.Color = patch.Color.Ptr()
	}

	if err := s.db.WithContext(ctx).Save(cat).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateCategory(cat.Name)
		}
		return nil, util.Internal("failed to update category", err)
	}
	return cat, nil
}

// Delete removes the category and detaches it from owner's transactions.
// The transactions themselves are kept.
func (s *CategoryStore) Delete(ctx context.Context, id, owner uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, owner).Delete(&models.Category{})
		if res.Error != nil {
			return util.Internal("failed to delete category", res.Error)
		}
		if res.RowsAffected == 0 {
			return categoryNotFound(id)
		}
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return util.Internal("failed to detach transactions", err)
		}
		return nil
	})
}

func (s *CategoryStore) nameTaken(ctx context.Context, owner uint, name string, exceptID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("user_id = ? AND name = ?", owner, name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, util.Internal("failed to check category name", err)
	}
	return count > 0, nil
}
