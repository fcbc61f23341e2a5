package types

import (
	"time"
)

// VideoTag joins videos and tags many-to-many. Uniqueness of (VideoID, TagID)
// is not enforced by the schema; ReplaceForVideo keeps associations
// idempotent by delete-then-reinsert.
type VideoTag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   int64     `gorm:"index;not null;column:video_id" json:"videoId"`
	TagID     int64     `gorm:"index;not null;column:tag_id" json:"tagId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (VideoTag) TableName() string {
	return "video_tags"
}
