package spaces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// MaxCoverImageSize caps event cover uploads at 5 MiB
const MaxCoverImageSize = 5 << 20

// Upload errors
var (
	ErrNotConfigured   = errors.New("object storage not configured")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowed cover image content types
var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Client handles uploads to an S3-compatible Spaces bucket
type Client struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	cdnURL   string
}

// Config holds the Spaces connection settings
type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// NewClient creates a Spaces client. Returns nil without error when the
// config is empty; callers treat a nil client as storage disabled.
func NewClient(config Config) (*Client, error) {
	if config.AccessKey == "" || config.SecretKey == "" || config.Bucket == "" {
		return nil, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &Client{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: config.Endpoint,
		cdnURL:   config.CDNURL,
	}, nil
}

// UploadCoverImage validates and stores an event cover image, returning its
// public URL. Keys are namespaced by event slug and made unique so a
// re-upload never serves a stale cached object.
func (c *Client) UploadCoverImage(ctx context.Context, eventSlug, contentType string, data []byte) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if len(data) > MaxCoverImageSize {
		return "", ErrFileTooLarge
	}
	ext, ok := imageContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}

	key := filepath.Join("events", eventSlug,
		fmt.Sprintf("cover-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext))
	return c.upload(ctx, key, bytes.NewReader(data), contentType)
}

// UploadAvatar stores a user avatar and returns its public URL
func (c *Client) UploadAvatar(ctx context.Context, userID uint, contentType string, data []byte) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if len(data) > MaxCoverImageSize {
		return "", ErrFileTooLarge
	}
	ext, ok := imageContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}

	key := filepath.Join("avatars",
		fmt.Sprintf("%d-%d%s", userID, time.Now().UnixMilli(), ext))
	return c.upload(ctx, key, bytes.NewReader(data), contentType)
}

func (c *Client) upload(ctx context.Context, key string, data io.ReadSeeker, contentType string) (string, error) {
	_, err := c.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        data,
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if c.cdnURL != "" {
		return fmt.Sprintf("%s/%s", c.cdnURL, key), nil
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucket, c.endpoint, key), nil
}

// Delete removes an object by key
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil {
		return ErrNotConfigured
	}
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
