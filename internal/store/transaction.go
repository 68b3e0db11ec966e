package store

import (
	"context"
	"errors"
	"fmt"

	"myfinance/internal/models"
	"myfinance/internal/report"
	"myfinance/internal/util"

	"gorm.io/gorm"
)

// TransactionFilter narrows List. Zero values mean "no filter"; dates are
// inclusive YYYY-MM-DD bounds.
type TransactionFilter struct {
	Type       models.TransactionType
	CategoryID uint
	StartDate  string
	EndDate    string
}

// TransactionPatch lists the fields to change. CategoryID set to null
// detaches the category; leaving it unset keeps the current one.
type TransactionPatch struct {
	AmountCents *int64
	Description *string
	Date        *string
	Type        *models.TransactionType
	Notes       util.Optional[string]
	CategoryID  util.Optional[uint]
}

// TransactionRecord is a transaction with its category resolved, if any.
type TransactionRecord struct {
	models.Transaction
	Category *models.Category
}

type TransactionStore struct {
	db         *gorm.DB
	categories *CategoryStore
}

func NewTransactionStore(db *gorm.DB, categories *CategoryStore) *TransactionStore {
	return &TransactionStore{db: db, categories: categories}
}

func transactionNotFound(id uint) error {
	return util.NotFound(fmt.Sprintf("transaction %d not found", id))
}

// Create stores t for owner. A category id that does not belong to owner is
// a validation error.
func (s *TransactionStore) Create(ctx context.Context, owner uint, t *models.Transaction) (*TransactionRecord, error) {
	t.ID = 0
	t.UserID = owner

	var cat *models.Category
	if t.CategoryID != nil {
		c, err := s.ownedCategory(ctx, owner, *t.CategoryID)
		if err != nil {
			return nil, err
		}
		cat = c
	}

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, writeError(err, t, "failed to create transaction")
	}
	return &TransactionRecord{Transaction: *t, Category: cat}, nil
}

// List returns owner's transactions matching f, newest date first.
func (s *TransactionStore) List(ctx context.Context, owner uint, f TransactionFilter) ([]TransactionRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	q = applyDateRange(q, f.StartDate, f.EndDate)

	var txns []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, util.Internal("failed to list transactions", err)
	}
	return s.withCategories(ctx, owner, txns)
}

func (s *TransactionStore) Get(ctx context.Context, id, owner uint) (*TransactionRecord, error) {
	t, err := s.find(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	records, err := s.withCategories(ctx, owner, []models.Transaction{*t})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Update applies patch to one of owner's transactions.
func (s *TransactionStore) Update(ctx context.Context, id, owner uint, patch TransactionPatch) (*TransactionRecord, error) {
	t, err := s.find(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID.Set {
		if patch.CategoryID.Null {
			t.CategoryID = nil
		} else {
			if _, err := s.ownedCategory(ctx, owner, patch.CategoryID.Value); err != nil {
				return nil, err
			}
			t.CategoryID = patch.CategoryID.Ptr()
		}
	}
	if patch.AmountCents != nil {
		t.AmountCents = *patch.AmountCents
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Notes.Set {
		t.Notes = patch.Notes.Ptr()
	}

	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, writeError(err, t, "failed to update transaction")
	}
	return s.Get(ctx, t.ID, owner)
}

func (s *TransactionStore) Delete(ctx context.Context, id, owner uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return util.Internal("failed to delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return transactionNotFound(id)
	}
	return nil
}

// ReportRows loads owner's transactions in the date range, oldest id first,
// with category name and color resolved.
func (s *TransactionStore) ReportRows(ctx context.Context, owner uint, startDate, endDate string) ([]report.Row, error) {
	q := s.db.WithContext(ctx).
		Select("id", "category_id", "amount_cents", "type").
		Where("user_id = ?", owner)
	q = applyDateRange(q, startDate, endDate)

	var txns []models.Transaction
	if err := q.Order("id ASC").Find(&txns).Error; err != nil {
		return nil, util.Internal("failed to load transactions", err)
	}

	records, err := s.withCategories(ctx, owner, txns)
	if err != nil {
		return nil, err
	}

	rows := make([]report.Row, 0, len(records))
	for _, r := range records {
		row := report.Row{Type: r.Type, AmountCents: r.AmountCents}
		if r.Category != nil {
			name := r.Category.Name
			row.CategoryName = &name
			row.CategoryColor = r.Category.Color
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TransactionStore) find(ctx context.Context, id, owner uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactionNotFound(id)
		}
		return nil, util.Internal("failed to look up transaction", err)
	}
	return &t, nil
}

// writeError maps a failed insert or update. A foreign key failure means the
// category (or the owner) was deleted after it was checked.
func writeError(err error, t *models.Transaction, msg string) error {
	if !isForeignKeyViolation(err) {
		return util.Internal(msg, err)
	}
	if t.CategoryID != nil {
		return util.Validation(fmt.Sprintf("category %d not found", *t.CategoryID))
	}
	return util.NotFound("user not found")
}

func (s *TransactionStore) ownedCategory(ctx context.Context, owner, categoryID uint) (*models.Category, error) {
	cat, err := s.categories.Get(ctx, categoryID, owner)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.Validation(fmt.Sprintf("category %d not found", categoryID))
		}
		return nil, err
	}
	return cat, nil
}

func (s *TransactionStore) withCategories(ctx context.Context, owner uint, txns []models.Transaction) ([]TransactionRecord, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, t := range txns {
		if t.CategoryID != nil && !seen[*t.CategoryID] {
			seen[*t.CategoryID] = true
			ids = append(ids, *t.CategoryID)
		}
	}

	cats, err := s.categories.FindByIDs(ctx, owner, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TransactionRecord, 0, len(txns))
	for _, t := range txns {
		rec := TransactionRecord{Transaction: t}
		if t.CategoryID != nil {
			if c, ok := cats[*t.CategoryID]; ok {
				rec.Category = &c
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func applyDateRange(q *gorm.DB, startDate, endDate string) *gorm.DB {
	if startDate != "" {
		q = q.Where("date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("date <= ?", endDate)
	}
	return q
}
