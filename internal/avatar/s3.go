// Package avatar issues presigned S3 uploads for profile images. Clients
// upload the image bytes straight to the bucket; the service only stores the
// resulting public URL on the user's profile.
package avatar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/msomdec/usergraph/internal/domain"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Accepted image types and the object key extension used for each.
var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Config describes the bucket avatars are uploaded to.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible stores such as MinIO
	AccessKey string // optional; the default AWS credential chain is used when empty
	SecretKey string
	// PublicBaseURL is the prefix clients read images from. When empty the
	// URL is derived from Endpoint or the regional S3 host.
	PublicBaseURL string
	UploadTTL     time.Duration
}

// Store presigns avatar uploads. It implements domain.AvatarStore.
type Store struct {
	cfg     Config
	presign *s3.PresignClient
	now     func() time.Time
}

var _ domain.AvatarStore = (*Store)(nil)

// New builds the S3 presign client for cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("avatar bucket is required")
	}
	if cfg.UploadTTL <= 0 {
		cfg.UploadTTL = 15 * time.Minute
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{cfg: cfg, presign: newS3PresignClient(client), now: time.Now}, nil
}

// PresignUpload returns a short-lived PUT URL for a new avatar object owned
// by userID. Only common web image types are accepted.
func (s *Store) PresignUpload(ctx context.Context, userID, contentType string) (*domain.AvatarUpload, error) {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidInput, contentType)
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", userID, uuid.NewString(), ext)
	contentType = strings.ToLower(contentType)

	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.cfg.UploadTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	return &domain.AvatarUpload{
		Key:         key,
		UploadURL:   req.URL,
		ImageURL:    s.publicURL(key),
		ContentType: contentType,
		ExpiresAt:   s.now().Add(s.cfg.UploadTTL),
	}, nil
}

func (s *Store) publicURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
