package types

import (
	"time"
)

type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:50;column:name" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:50;column:slug" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Tag) TableName() string {
	return "tags"
}
