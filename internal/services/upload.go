package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/videoshowcase/backend/internal/apierr"
	"github.com/videoshowcase/backend/internal/logger"
	"github.com/videoshowcase/backend/internal/requestdata"
	"github.com/videoshowcase/backend/internal/storage"
)

type UploadResult struct {
	URL string
	Key string
}

// UploadService proxies admin uploads to the object store. Keys are
// namespaced by kind and uploader so one admin's files never collide with
// another's.
type UploadService interface {
	UploadVideo(ctx context.Context, fileName, fileData, mimeType string) (*UploadResult, error)
	UploadThumbnail(ctx context.Context, fileName, fileData, mimeType string) (*UploadResult, error)
}

type uploadService struct {
	log    *logger.Logger
	bucket storage.BucketService
}

func NewUploadService(log *logger.Logger, bucket storage.BucketService) UploadService {
	serviceLog := log.With("service", "UploadService")
	return &uploadService{log: serviceLog, bucket: bucket}
}

func (us *uploadService) UploadVideo(ctx context.Context, fileName, fileData, mimeType string) (*UploadResult, error) {
	return us.upload(ctx, "videos", fileName, fileData, mimeType)
}

func (us *uploadService) UploadThumbnail(ctx context.Context, fileName, fileData, mimeType string) (*UploadResult, error) {
	return us.upload(ctx, "thumbnails", fileName, fileData, mimeType)
}

func (us *uploadService) upload(ctx context.Context, kind, fileName, fileData, mimeType string) (*UploadResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, apierr.Unauthorized("missing_identity", fmt.Errorf("no authenticated caller on context"))
	}
	fileName = sanitizeFileName(fileName)
	if fileName == "" {
		return nil, apierr.BadRequest("missing_file_name", fmt.Errorf("fileName is required"))
	}
	data, err := base64.StdEncoding.DecodeString(fileData)
	if err != nil {
		return nil, apierr.BadRequest("invalid_file_data", fmt.Errorf("fileData is not valid base64: %w", err))
	}
	if len(data) == 0 {
		return nil, apierr.BadRequest("empty_file", fmt.Errorf("fileData is empty"))
	}

	key := fmt.Sprintf("%s/%d/%d-%s", kind, rd.UserID, time.Now().UnixMilli(), fileName)
	if err := us.bucket.UploadObject(ctx, key, data, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	us.log.Info("Upload stored", "kind", kind, "key", key, "bytes", len(data), "user_id", rd.UserID)
	return &UploadResult{URL: us.bucket.PublicURL(key), Key: key}, nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
