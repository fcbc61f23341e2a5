package types

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User rows are created by an upsert keyed on OpenID during login. OpenID is
// the external identity from the OAuth callback and is immutable once set.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OpenID       string    `gorm:"uniqueIndex;not null;size:64;column:open_id" json:"openId"`
	Name         string    `gorm:"column:name" json:"name"`
	Email        string    `gorm:"size:320;column:email" json:"email"`
	LoginMethod  string    `gorm:"size:64;column:login_method" json:"loginMethod"`
	Role         Role      `gorm:"not null;default:user;size:16;column:role" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
	LastSignedIn time.Time `gorm:"not null;column:last_signed_in" json:"lastSignedIn"`
}

func (User) TableName() string {
	return "users"
}
