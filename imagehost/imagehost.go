// Package imagehost uploads listing images to an S3-compatible asset host and
// serves the public URLs back to the handlers.
package imagehost

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"campwild/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Bucket is the fixed hosting bucket for campground images.
const Bucket = "img-up"

// Host is the narrow interface the handlers use.
type Host interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, assetID string) error
}

// Options configures the S3 host. AccessKey and SecretKey come from the
// IMGHOST_API_KEY / IMGHOST_API_SECRET environment variables via config.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3Host stores assets under extensionless keys so that deriving an asset id
// from the public URL (last path segment, extension stripped) returns the
// exact object key.
type S3Host struct {
	client  *s3.Client
	baseURL string
}

func New(ctx context.Context, opts Options) (*S3Host, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Host{
		client:  client,
		baseURL: strings.TrimRight(opts.Endpoint, "/"),
	}, nil
}

// Upload stores the file and returns its public URL.
func (h *S3Host) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", models.NewUploadError("Could not read uploaded file", err)
	}
	defer f.Close()

	key := uuid.NewString()
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", models.NewUploadError("Image upload failed", err)
	}

	return fmt.Sprintf("%s/%s/%s", h.baseURL, Bucket, key), nil
}

// Delete removes a previously uploaded asset. Callers treat failures as
// best-effort: the result is logged, never surfaced to the end user.
func (h *S3Host) Delete(ctx context.Context, assetID string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(Bucket),
		Key:    aws.String(assetID),
	})
	return err
}

// AssetID derives the deletion identifier from a stored asset URL: the last
// path segment with any file extension stripped. This assumes the host's URL
// shape; a URL from a provider with a different shape derives a wrong
// identifier silently.
func AssetID(assetURL string) string {
	parts := strings.Split(assetURL, "/")
	last := parts[len(parts)-1]
	return strings.Split(last, ".")[0]
}
