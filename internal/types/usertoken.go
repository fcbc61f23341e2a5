package types

import (
	"time"
)

// UserToken is one rotating refresh credential. The cookie value is
// "<id>.<secret>"; only the bcrypt hash of the secret is stored. Rotation
// deletes the old row and inserts a replacement inside one transaction.
type UserToken struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     int64     `gorm:"index;not null;column:user_id" json:"userId"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	SecretHash string    `gorm:"not null;column:secret_hash" json:"-"`
	ExpiresAt  time.Time `gorm:"not null;column:expires_at" json:"expiresAt"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
