package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
)

// UploadURL is a presigned PUT target for one attachment upload.
type UploadURL struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// UploadService issues presigned S3 PUT URLs so clients upload attachments
// directly to object storage. It is nil-safe to skip entirely when S3 is not
// configured.
type UploadService struct {
	presignClient *s3.PresignClient
	bucket        string
	ttl           time.Duration
	now           func() time.Time
}

// NewUploadService builds the presigner from config, using path-style
// addressing for S3-compatible endpoints. Returns nil when S3 is not
// configured.
func NewUploadService(cfg *config.Config) *UploadService {
	if !cfg.HasS3Config() {
		return nil
	}

	endpoint := *cfg.S3Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	s3Client := s3.New(s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	return &UploadService{
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        *cfg.S3Bucket,
		ttl:           cfg.UploadURLTTL,
		now:           time.Now,
	}
}

// IssueUploadURL presigns a PUT for a fresh object key scoped to the caller.
// The key embeds a random id so concurrent uploads of the same filename
// never collide.
func (s *UploadService) IssueUploadURL(ctx context.Context, caller domain.Principal, filename, contentType string) (*UploadURL, error) {
	base := sanitizeFilename(filename)
	if base == "" {
		return nil, domain.ErrValidation("filename is required")
	}

	key := fmt.Sprintf("uploads/%d/%s-%s", caller.ID, uuid.NewString(), base)

	result, err := s.presignClient.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		},
		s3.WithPresignExpires(s.ttl),
	)
	if err != nil {
		return nil, fmt.Errorf("presign PutObject for %q: %w", key, err)
	}

	return &UploadURL{
		URL:       result.URL,
		Key:       key,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// sanitizeFilename strips any path components and rejects names that reduce
// to nothing.
func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
