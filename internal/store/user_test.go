package store

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myfinance/internal/models"
	"myfinance/internal/util"
)

func (s *StoreSuite) TestUserCreate_DefaultsRole() {
	assert.Equal(s.T(), models.RoleUser, s.alice.Role)
	assert.NotZero(s.T(), s.alice.ID)
}

func (s *StoreSuite) TestUserCreate_DuplicateEmail() {
	dup := models.User{Email: "alice@example.com", PasswordHash: "y"}
	err := s.users.Create(s.ctx, &dup)
	assert.ErrorIs(s.T(), err, util.ErrConflict)

	var count int64
	require.NoError(s.T(), s.db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(s.T(), int64(1), count)
}

func (s *StoreSuite) TestUserCreate_UniqueIndexBackstop() {
	// Bypass the lookup to hit the index directly, as a concurrent insert would.
	err := s.db.Create(&models.User{Email: "bob@example.com", PasswordHash: "z", Role: models.RoleUser}).Error
	require.Error(s.T(), err)
	assert.True(s.T(), isUniqueViolation(err))
}

func (s *StoreSuite) TestUserFind() {
	u, err := s.users.FindByEmail(s.ctx, "bob@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.bob.ID, u.ID)

	_, err = s.users.FindByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	_, err = s.users.FindByID(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)
}

func (s *StoreSuite) TestUserList() {
	users, err := s.users.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), users, 2)
	assert.Equal(s.T(), "alice@example.com", users[0].Email)
	assert.Empty(s.T(), users[0].PasswordHash)
}

func (s *StoreSuite) TestUserDelete_Cascades() {
	cat := s.mustCategory(s.alice.ID, "food")
	s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", &cat.ID)
	s.mustTransaction(s.alice.ID, 200, models.TypeIncome, "2024-01-02", nil)
	bobCat := s.mustCategory(s.bob.ID, "food")
	s.mustTransaction(s.bob.ID, 300, models.TypeExpense, "2024-01-03", &bobCat.ID)

	require.NoError(s.T(), s.users.Delete(s.ctx, s.alice.ID))

	var n int64
	s.db.Model(&models.Category{}).Where("user_id = ?", s.alice.ID).Count(&n)
	assert.Zero(s.T(), n)
	s.db.Model(&models.Transaction{}).Where("user_id = ?", s.alice.ID).Count(&n)
	assert.Zero(s.T(), n)

	s.db.Model(&models.Category{}).Where("user_id = ?", s.bob.ID).Count(&n)
	assert.Equal(s.T(), int64(1), n)
	s.db.Model(&models.Transaction{}).Where("user_id = ?", s.bob.ID).Count(&n)
	assert.Equal(s.T(), int64(1), n)
}

func (s *StoreSuite) TestUserDelete_NotFound() {
	err := s.users.Delete(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)
}

func (s *StoreSuite) TestUserDelete_SchemaCascades() {
	cat := s.mustCategory(s.alice.ID, "food")
	s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", &cat.ID)

	// Bypass the store so only the foreign keys act.
	require.NoError(s.T(), s.db.Exec("DELETE FROM users WHERE id = ?", s.alice.ID).Error)

	var n int64
	s.db.Model(&models.Category{}).Where("user_id = ?", s.alice.ID).Count(&n)
	assert.Zero(s.T(), n)
	s.db.Model(&models.Transaction{}).Where("user_id = ?", s.alice.ID).Count(&n)
	assert.Zero(s.T(), n)
}
