package store

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"myfinance/internal/models"
	"myfinance/internal/report"
	"myfinance/internal/util"
)

func (s *StoreSuite) TestTransactionCreate_WithOwnCategory() {
	cat := s.mustCategory(s.alice.ID, "salary")
	rec := s.mustTransaction(s.alice.ID, 10000, models.TypeIncome, "2024-01-05", &cat.ID)

	assert.NotZero(s.T(), rec.ID)
	assert.Equal(s.T(), s.alice.ID, rec.UserID)
	require.NotNil(s.T(), rec.Category)
	assert.Equal(s.T(), "salary", rec.Category.Name)
}

func (s *StoreSuite) TestTransactionCreate_ForeignCategoryIsBadRequest() {
	bobCat := s.mustCategory(s.bob.ID, "food")

	_, err := s.transactions.Create(s.ctx, s.alice.ID, &models.Transaction{
		AmountCents: 100, Description: "x", Date: "2024-01-01", Type: models.TypeExpense,
		CategoryID: &bobCat.ID,
	})
	assert.ErrorIs(s.T(), err, util.ErrValidation)

	var n int64
	s.db.Model(&models.Transaction{}).Count(&n)
	assert.Zero(s.T(), n)
}

func (s *StoreSuite) TestTransactionList_FiltersAndOrder() {
	cat := s.mustCategory(s.alice.ID, "food")
	s.mustTransaction(s.alice.ID, 10000, models.TypeIncome, "2024-01-05", nil)
	s.mustTransaction(s.alice.ID, 4000, models.TypeExpense, "2024-01-10", &cat.ID)
	s.mustTransaction(s.alice.ID, 500, models.TypeExpense, "2024-01-31", nil)
	s.mustTransaction(s.alice.ID, 700, models.TypeExpense, "2024-02-01", nil)
	s.mustTransaction(s.bob.ID, 999, models.TypeExpense, "2024-01-15", nil)

	all, err := s.transactions.List(s.ctx, s.alice.ID, TransactionFilter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 4)
	assert.Equal(s.T(), "2024-02-01", all[0].Date)
	assert.Equal(s.T(), "2024-01-05", all[3].Date)

	ranged, err := s.transactions.List(s.ctx, s.alice.ID, TransactionFilter{StartDate: "2024-01-06", EndDate: "2024-01-31"})
	require.NoError(s.T(), err)
	require.Len(s.T(), ranged, 2)
	assert.Equal(s.T(), "2024-01-31", ranged[0].Date)
	assert.Equal(s.T(), "2024-01-10", ranged[1].Date)

	income, err := s.transactions.List(s.ctx, s.alice.ID, TransactionFilter{Type: models.TypeIncome})
	require.NoError(s.T(), err)
	require.Len(s.T(), income, 1)
	assert.Equal(s.T(), int64(10000), income[0].AmountCents)

	byCat, err := s.transactions.List(s.ctx, s.alice.ID, TransactionFilter{CategoryID: cat.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), byCat, 1)
	require.NotNil(s.T(), byCat[0].Category)
	assert.Equal(s.T(), "food", byCat[0].Category.Name)
}

func (s *StoreSuite) TestTransactionList_NeverReturnsOtherOwner() {
	s.mustTransaction(s.alice.ID, 100, models.TypeIncome, "2024-01-01", nil)
	s.mustTransaction(s.bob.ID, 200, models.TypeIncome, "2024-01-01", nil)

	for _, owner := range []uint{s.alice.ID, s.bob.ID} {
		recs, err := s.transactions.List(s.ctx, owner, TransactionFilter{})
		require.NoError(s.T(), err)
		for _, r := range recs {
			assert.Equal(s.T(), owner, r.UserID)
		}
	}
}

func (s *StoreSuite) TestTransactionGetUpdateDelete_OtherOwnerIsNotFound() {
	rec := s.mustTransaction(s.alice.ID, 100, models.TypeIncome, "2024-01-01", nil)

	_, err := s.transactions.Get(s.ctx, rec.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	desc := "stolen"
	_, err = s.transactions.Update(s.ctx, rec.ID, s.bob.ID, TransactionPatch{Description: &desc})
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	err = s.transactions.Delete(s.ctx, rec.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)

	require.NoError(s.T(), s.transactions.Delete(s.ctx, rec.ID, s.alice.ID))
	err = s.transactions.Delete(s.ctx, rec.ID, s.alice.ID)
	assert.ErrorIs(s.T(), err, util.ErrNotFound)
}

func (s *StoreSuite) TestTransactionUpdate_CategorySemantics() {
	food := s.mustCategory(s.alice.ID, "food")
	rent := s.mustCategory(s.alice.ID, "rent")
	bobCat := s.mustCategory(s.bob.ID, "bob")
	rec := s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", &food.ID)

	// omitted: category untouched
	amount := int64(250)
	got, err := s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{AmountCents: &amount})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.CategoryID)
	assert.Equal(s.T(), food.ID, *got.CategoryID)
	assert.Equal(s.T(), int64(250), got.AmountCents)

	// foreign category rejected
	_, err = s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{CategoryID: util.Some(bobCat.ID)})
	assert.ErrorIs(s.T(), err, util.ErrValidation)

	// switch category
	got, err = s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{CategoryID: util.Some(rent.ID)})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "rent", got.Category.Name)

	// explicit null detaches
	got, err = s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{CategoryID: util.Null[uint]()})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.CategoryID)
	assert.Nil(s.T(), got.Category)
}

func (s *StoreSuite) TestTransactionUpdate_Notes() {
	rec := s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", nil)

	got, err := s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{Notes: util.Some("paid cash")})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.Notes)
	assert.Equal(s.T(), "paid cash", *got.Notes)

	got, err = s.transactions.Update(s.ctx, rec.ID, s.alice.ID, TransactionPatch{Notes: util.Null[string]()})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.Notes)
}

func (s *StoreSuite) TestReportRows_Scenario() {
	salary, err := s.categories.Create(s.ctx, s.alice.ID, "salary", strPtr("#00ff00"))
	require.NoError(s.T(), err)
	s.mustTransaction(s.alice.ID, 10000, models.TypeIncome, "2024-01-05", &salary.ID)
	s.mustTransaction(s.alice.ID, 4000, models.TypeExpense, "2024-01-10", nil)
	s.mustTransaction(s.bob.ID, 123, models.TypeExpense, "2024-01-10", nil)

	rows, err := s.transactions.ReportRows(s.ctx, s.alice.ID, "", "")
	require.NoError(s.T(), err)
	breakdown := report.ByCategory(rows)

	assert.Equal(s.T(), []report.CategoryTotal{{CategoryName: "salary", Amount: 10000, CategoryColor: "#00ff00"}}, breakdown.IncomeByCategory)
	assert.Equal(s.T(), []report.CategoryTotal{{CategoryName: report.UncategorizedName, Amount: 4000, CategoryColor: report.DefaultColor}}, breakdown.ExpenseByCategory)

	sum := report.Summarize(rows)
	assert.Equal(s.T(), models.Money(6000), sum.Balance)

	rows, err = s.transactions.ReportRows(s.ctx, s.alice.ID, "2024-01-06", "")
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), models.TypeExpense, rows[0].Type)
}

func (s *StoreSuite) TestTransactionInsert_MissingCategoryIsRejected() {
	missing := uint(9999)
	t := &models.Transaction{
		UserID: s.alice.ID, CategoryID: &missing,
		AmountCents: 100, Description: "x", Date: "2024-01-01", Type: models.TypeExpense,
	}

	// Written straight to the table, as after a concurrent category delete.
	err := s.db.Create(t).Error
	require.Error(s.T(), err)
	assert.True(s.T(), isForeignKeyViolation(err))
	assert.ErrorIs(s.T(), writeError(err, t, "failed"), util.ErrValidation)

	all, err := s.transactions.List(s.ctx, s.alice.ID, TransactionFilter{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), all)
}

func (s *StoreSuite) TestTransactionUpdate_DeletedCategoryIsRejected() {
	rec := s.mustTransaction(s.alice.ID, 100, models.TypeExpense, "2024-01-01", nil)

	missing := uint(9999)
	err := s.db.Model(&models.Transaction{}).Where("id = ?", rec.ID).Update("category_id", missing).Error
	require.Error(s.T(), err)
	assert.True(s.T(), isForeignKeyViolation(err))

	got, err := s.transactions.Get(s.ctx, rec.ID, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.CategoryID)
}

func (s *StoreSuite) TestWriteError() {
	t := &models.Transaction{}
	assert.ErrorIs(s.T(), writeError(assert.AnError, t, "failed"), util.ErrInternal)
	assert.ErrorIs(s.T(), writeError(gorm.ErrForeignKeyViolated, t, "failed"), util.ErrNotFound)
}
