package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"myfinance/internal/models"
)

var (
	colorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	maxAmount = decimal.New(1, 8) // decimal(10,2)
)

// Exponent bounds checked before any arithmetic. Rescaling a value such as
// 1e200000000 allocates a power of ten of that size.
const (
	maxAmountExp = 8
	minAmountExp = -20
)

const MaxCategoryNameLen = 50

// ParseAmount validates a positive amount and converts it to cents.
// Values are rounded half away from zero to two decimals first, so 0.004 is
// rejected and 0.005 becomes 1 cent.
func ParseAmount(amount decimal.Decimal) (int64, error) {
	if exp := amount.Exponent(); exp > maxAmountExp || exp < minAmountExp {
		if amount.Sign() <= 0 {
			return 0, fmt.Errorf("amount must be positive, got %s", amount.String())
		}
		if exp > maxAmountExp {
			return 0, fmt.Errorf("amount too large")
		}
		return 0, fmt.Errorf("amount has too many decimal places")
	}
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	if rounded.GreaterThanOrEqual(maxAmount) {
		return 0, fmt.Errorf("amount too large, got %s", amount.String())
	}
	return rounded.Shift(2).IntPart(), nil
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	if !dateRe.MatchString(dateStr) {
		return fmt.Errorf("invalid date format, want YYYY-MM-DD")
	}
	if _, err := time.Parse(models.DateLayout, dateStr); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	return nil
}

// NormalizeCategoryName trims and lower-cases a category name and checks its length.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("category name is empty")
	}
	if len([]rune(name)) > MaxCategoryNameLen {
		return "", fmt.Errorf("category name too long, max %d characters", MaxCategoryNameLen)
	}
	return name, nil
}

// ValidateColor checks a #RGB or #RRGGBB hex color.
func ValidateColor(color string) error {
	if !colorRe.MatchString(color) {
		return fmt.Errorf("invalid color %q, want #RRGGBB or #RGB", color)
	}
	return nil
}
