package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/changcookbook/backend/config"
	"github.com/google/uuid"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
	ErrBadImageType     = errors.New("unsupported image type")
	ErrUnknownImageKind = errors.New("unknown image kind")
)

// Size limits per image kind.
const (
	maxRecipeImageSize = 5 << 20
	maxChefImageSize   = 2 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ImageService stores uploaded recipe and chef images in S3 and hands back
// the public URL to embed in recipe documents.
type ImageService struct {
	s3     *config.S3Config
	region string
}

func NewImageService(s3cfg *config.S3Config, region string) *ImageService {
	return &ImageService{s3: s3cfg, region: region}
}

// Upload validates and stores one image. kind is "recipe" or "chef" and
// picks the key prefix and size limit.
func (s *ImageService) Upload(ctx context.Context, kind string, file multipart.File, header *multipart.FileHeader) (string, error) {
	var prefix string
	var maxSize int64
	switch kind {
	case "recipe":
		prefix, maxSize = "recipes", maxRecipeImageSize
	case "chef":
		prefix, maxSize = "chefs", maxChefImageSize
	default:
		return "", ErrUnknownImageKind
	}

	if header.Size > maxSize {
		return "", ErrImageTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return "", ErrBadImageType
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)

	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3.BucketName, s.region, key), nil
}
