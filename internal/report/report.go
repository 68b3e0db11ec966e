// Package report computes income/expense summaries over a user's
// transactions. Amounts are accumulated in cents and only turned into
// decimals when rendered.
package report

import (
	"myfinance/internal/models"
)

const (
	UncategorizedName = "Uncategorized"
	DefaultColor      = "#808080"
)

// Row is the slice of a transaction the aggregations need.
type Row struct {
	Type          models.TransactionType
	AmountCents   int64
	CategoryName  *string
	CategoryColor *string
}

type Summary struct {
	TotalIncome  models.Money `json:"totalIncome"`
	TotalExpense models.Money `json:"totalExpense"`
	Balance      models.Money `json:"balance"`
}

// Summarize totals income and expense in one pass. Balance is always
// exactly TotalIncome - TotalExpense.
func Summarize(rows []Row) Summary {
	var income, expense int64
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			income += r.AmountCents
		case models.TypeExpense:
			expense += r.AmountCents
		}
	}
	return Summary{
		TotalIncome:  models.Money(income),
		TotalExpense: models.Money(expense),
		Balance:      models.Money(income - expense),
	}
}

type CategoryTotal struct {
	CategoryName  string       `json:"categoryName"`
	Amount        models.Money `json:"amount"`
	CategoryColor string       `json:"categoryColor"`
}

type CategoryBreakdown struct {
	IncomeByCategory  []CategoryTotal `json:"incomeByCategory"`
	ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
}

// ByCategory groups rows by category name, separately for income and
// expense. Groups keep the order in which their name first appears and the
// color of that first row. Rows without a category go to UncategorizedName.
//
// Grouping by name relies on category names being unique per owner.
func ByCategory(rows []Row) CategoryBreakdown {
	income := newGrouper()
	expense := newGrouper()

	for _, r := range rows {
		name := UncategorizedName
		if r.CategoryName != nil {
			name = *r.CategoryName
		}
		color := DefaultColor
		if r.CategoryColor != nil && *r.CategoryColor != "" {
			color = *r.CategoryColor
		}

		switch r.Type {
		case models.TypeIncome:
			income.add(name, color, r.AmountCents)
		case models.TypeExpense:
			expense.add(name, color, r.AmountCents)
		}
	}

	return CategoryBreakdown{
		IncomeByCategory:  income.totals,
		ExpenseByCategory: expense.totals,
	}
}

type grouper struct {
	index  map[string]int
	totals []CategoryTotal
}

func newGrouper() *grouper {
	return &grouper{index: map[string]int{}, totals: []CategoryTotal{}}
}

func (g *grouper) add(name, color string, cents int64) {
	i, ok := g.index[name]
	if !ok {
		i = len(g.totals)
		g.index[name] = i
		g.totals = append(g.totals, CategoryTotal{CategoryName: name, CategoryColor: color})
	}
	g.totals[i].Amount += models.Money(cents)
}
