// Package store holds the gorm repositories. Category and transaction
// methods take the owner's user id and never touch rows of another owner;
// a row owned by someone else is reported exactly like a missing one.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports a unique index failure, either translated by
// gorm or as the raw sqlite message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports a row that references a missing parent.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
