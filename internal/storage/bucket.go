package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/videoshowcase/backend/internal/envutil"
	"github.com/videoshowcase/backend/internal/logger"
)

// BucketService is the object-store capability the upload path needs: put
// bytes under a key, delete a key, derive the public URL for a key.
type BucketService interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketService struct {
	log          *logger.Logger
	client       *gcs.Client
	bucketName   string
	cdnDomain    string
	emulatorHost string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucketName := os.Getenv("CATALOG_GCS_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var CATALOG_GCS_BUCKET_NAME")
	}
	cdnDomain := envutil.String("CATALOG_CDN_DOMAIN", "")
	emulatorHost := strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/")

	ctx := context.Background()
	var client *gcs.Client
	var err error
	if emulatorHost != "" {
		client, err = gcs.NewClient(ctx,
			option.WithEndpoint(emulatorHost+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
	} else {
		client, err = gcs.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info("Object storage initialized",
		"bucket", bucketName,
		"cdn_domain", cdnDomain,
		"emulator_host", emulatorHost,
	)

	return &bucketService{
		log:          serviceLog,
		client:       client,
		bucketName:   bucketName,
		cdnDomain:    cdnDomain,
		emulatorHost: emulatorHost,
	}, nil
}

func (bs *bucketService) UploadObject(ctx context.Context, key string, data []byte, contentType string) error {
	writer := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %q: %w", key, err)
	}
	bs.log.Debug("Uploaded object", "key", key, "bytes", len(data), "content_type", contentType)
	return nil
}

func (bs *bucketService) DeleteObject(ctx context.Context, key string) error {
	if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) PublicURL(key string) string {
	escaped := url.PathEscape(key)
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, escaped)
	}
	if bs.emulatorHost != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			bs.emulatorHost, bs.bucketName, url.QueryEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, escaped)
}
