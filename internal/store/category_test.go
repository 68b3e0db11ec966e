package store

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myfinance/internal/models"
	"myfinance/internal/util"
)

func strPtr(s string) *string { return &s }

func (s *StoreSuite) TestCategoryCreate_ConflictPerOwner() {
	s.mustCategory(s.alice.ID, "salary")

	_, err := s.categories.Create(s.ctx, s.alice.ID, "salary", nil)
	assert.ErrorIs(s.T(), err, util.ErrConflict)

	// another owner may reuse the name
	_, err = s.categories.Create(s.ctx, s.bob.ID, "salary", nil)
	assert.NoError(s.T(), err)
}

func (s *StoreSuite) TestCategoryCreate_UniqueIndexBackstop() {
	s.mustCategory(s.alice.ID, "rent")

	err := s.db.Create(&models.Category{UserID: s.alice.ID, Name: "rent"}).Error
	require.Error(s.T(), err)
	assert.True(s.T(), isUniqueViolation(err))
}

func (s *StoreSuite) TestCategoryList_SortedAndScoped() {
	s.mustCategory(s.alice.ID, "rent")
	s.mustCategory(s.alice.ID, "food")
	s.mustCategory(s.bob.ID, "bob-only")

	cats, err := s.categories.List(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), cats, 2)
	assert.Equal(s.T(), "food", cats[0].Name)
	assert.Equal(s.T(), "rent", cats[1].Name)
	for _, c := range cats {
		assert.Equal(s.T(), s.alice.ID, c.UserID)
	}
}

func (s *StoreSuite) TestCategoryGet_OtherOwnerIsNotFound() {
	cat := s.mustCategory(s.alice.ID, "food")

	_, err := s.categories.Get(s.ctx, cat.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	_, err = s.categories.Get(s.ctx, 9999, s.alice.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)
}

func (s *StoreSuite) TestCategoryUpdate() {
	cat, err := s.categories.Create(s.ctx, s.alice.ID, "food", strPtr("#fff"))
	require.NoError(s.T(), err)
	s.mustCategory(s.alice.ID, "rent")

	// same name as itself is fine
	_, err = s.categories.Update(s.ctx, cat.ID, s.alice.ID, CategoryPatch{Name: strPtr("food")})
	assert.NoError(s.T(), err)

	_, err = s.categories.Update(s.ctx, cat.ID, s.alice.ID, CategoryPatch{Name: strPtr("rent")})
	assert.ErrorIs(s.T(), err, util.ErrConflict)

	updated, err := s.categories.Update(s.ctx, cat.ID, s.alice.ID, CategoryPatch{
		Name:  strPtr("groceries"),
		Color: util.Some("#00ff00"),
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "groceries", updated.Name)
	require.NotNil(s.T(), updated.Color)
	assert.Equal(s.T(), "#00ff00", *updated.Color)

	// omitted color is untouched, null clears it
	updated, err = s.categories.Update(s.ctx, cat.ID, s.alice.ID, CategoryPatch{})
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), updated.Color)
	updated, err = s.categories.Update(s.ctx, cat.ID, s.alice.ID, CategoryPatch{Color: util.Null[string]()})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), updated.Color)

	_, err = s.categories.Update(s.ctx, cat.ID, s.bob.ID, CategoryPatch{Name: strPtr("x")})
	assert.ErrorIs(s.T(), err, util.ErrNotFound)
}

func (s *StoreSuite) TestCategoryDelete_DetachesTransactions() {
	cat := s.mustCategory(s.alice.ID, "food")
	rec := s.mustTransaction(s.alice.ID, 500, models.TypeExpense, "2024-02-01", &cat.ID)

	require.NoError(s.T(), s.categories.Delete(s.ctx, cat.ID, s.alice.ID))

	got, err := s.transactions.Get(s.ctx, rec.ID, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.CategoryID)
	assert.Nil(s.T(), got.Category)
	assert.Equal(s.T(), int64(500), got.AmountCents)
}

func (s *StoreSuite) TestCategoryDelete_OtherOwnerIsNotFound() {
	cat := s.mustCategory(s.alice.ID, "food")

	err := s.categories.Delete(s.ctx, cat.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	_, err = s.categories.Get(s.ctx, cat.ID, s.alice.ID)
	assert.NoError(s.T(), err)
}

func (s *StoreSuite) TestCategoryDelete_SchemaSetsNull() {
	cat := s.mustCategory(s.alice.ID, "food")
	rec := s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", &cat.ID)

	// Bypass the store so only the foreign key acts.
	require.NoError(s.T(), s.db.Exec("DELETE FROM categories WHERE id = ?", cat.ID).Error)

	got, err := s.transactions.Get(s.ctx, rec.ID, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.CategoryID)
}
