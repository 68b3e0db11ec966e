package store

import (
	"context"
	"errors"

	"myfinance/internal/models"
	"myfinance/internal/util"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts u. A duplicate email is a conflict, whether it is caught by
// the lookup or by the unique index on insert.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).
		Count(&count).Error; err != nil {
		return util.Internal("failed to look up user", err)
	}
	if count > 0 {
		return util.Conflict("email already in use")
	}

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return util.Conflict("email already in use")
		}
		return util.Internal("failed to create user", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, util.Internal("failed to look up user", err)
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, util.Internal("failed to look up user", err)
	}
	return &u, nil
}

// List returns every user ordered by id.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "email", "role").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, util.Internal("failed to list users", err)
	}
	return users, nil
}

// Delete removes the user together with all of their transactions and
// categories, in one database transaction.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return util.Internal("failed to delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return util.NotFound("user not found")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return util.Internal("failed to delete user transactions", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return util.Internal("failed to delete user categories", err)
		}
		return nil
	})
}
