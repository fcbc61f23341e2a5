package types

import (
	"time"
)

type VideoStatus string

const (
	VideoStatusDraft     VideoStatus = "draft"
	VideoStatusPublished VideoStatus = "published"
	VideoStatusArchived  VideoStatus = "archived"
)

func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusDraft, VideoStatusPublished, VideoStatusArchived:
		return true
	default:
		return false
	}
}

// Video metadata plus object-store references. The bytes themselves live in
// the bucket under VideoKey/ThumbnailKey; URLs are derived at upload time.
// CategoryID is a weak reference: deleting a category nulls it out but never
// deletes videos.
type Video struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string      `gorm:"not null;size:255;column:title" json:"title"`
	Slug         string      `gorm:"uniqueIndex;not null;size:255;column:slug" json:"slug"`
	Description  string      `gorm:"column:description" json:"description"`
	VideoURL     string      `gorm:"not null;column:video_url" json:"videoUrl"`
	VideoKey     string      `gorm:"not null;column:video_key" json:"videoKey"`
	ThumbnailURL string      `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	ThumbnailKey string      `gorm:"column:thumbnail_key" json:"thumbnailKey"`
	Duration     *int        `gorm:"column:duration" json:"duration"`
	FileSize     *int64      `gorm:"column:file_size" json:"fileSize"`
	MimeType     string      `gorm:"size:100;column:mime_type" json:"mimeType"`
	ViewCount    int64       `gorm:"not null;default:0;column:view_count" json:"viewCount"`
	CategoryID   *int64      `gorm:"index;column:category_id" json:"categoryId"`
	UploadedBy   int64       `gorm:"not null;column:uploaded_by" json:"uploadedBy"`
	Status       VideoStatus `gorm:"not null;default:published;size:16;column:status" json:"status"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updatedAt"`
}

func (Video) TableName() string {
	return "videos"
}

// VideoFilter is the explicit query specification for listing videos. Zero
// fields omit their predicate entirely; predicates are AND-combined. TagIDs
// is OR across tags: a video matches when it carries at least one of them.
type VideoFilter struct {
	Status     VideoStatus
	CategoryID int64
	Search     string
	TagIDs     []int64
}
