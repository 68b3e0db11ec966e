package models

import "time"

// Category groups a user's transactions. Name is stored lower-cased and is
// unique per owner. Owner only declares the foreign key.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_categories_user_name,priority:1" json:"-"`
	Owner     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	Color     *string   `gorm:"size:7" json:"color"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
