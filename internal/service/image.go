package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Zh-Andrew/foodgram-project-react/config"
	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
)

// ImageStore persists raw image bytes and returns a reference (URL or path).
type ImageStore interface {
	Store(ctx context.Context, data []byte, ext string) (string, error)
}

// S3ImageStore stores images in the configured S3 bucket.
type S3ImageStore struct {
	cfg *config.S3Config
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{cfg: cfg}
}

func (s *S3ImageStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.BucketName, key)
	logrus.WithField("url", url).Debug("uploaded image to S3")
	return url, nil
}

// LocalImageStore writes images under a media directory, for setups without
// object storage.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{dir: dir}
}

func (s *LocalImageStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return "/media/" + name, nil
}

// ImageService turns inline base64 image payloads into stored references.
// Plain references (URLs, previously stored paths) pass through untouched.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Resolve stores an inline "data:image/...;base64," payload and returns its
// reference. Any other non-empty string is assumed to already be a reference.
func (s *ImageService) Resolve(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	data, ext, err := decodeDataURI(image)
	if err != nil {
		return "", err
	}
	return s.store.Store(ctx, data, ext)
}

func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, found := strings.Cut(uri, ";base64,")
	if !found || !strings.HasPrefix(header, "data:image/") {
		return nil, "", apperr.Validation("image must be a base64-encoded data URI")
	}

	ext := strings.TrimPrefix(header, "data:image/")
	if ext == "" {
		return nil, "", apperr.Validation("image data URI is missing a media type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperr.Validation("image payload is not valid base64")
	}
	return data, ext, nil
}
