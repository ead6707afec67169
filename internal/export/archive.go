package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"licensing-map/internal/logging"
)

// Archiver keeps a copy of generated exports.
type Archiver interface {
	Archive(ctx context.Context, name string, body []byte) error
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads exports under exports/ in a bucket.
type S3Archiver struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Archiver loads the default AWS configuration for region and returns an
// archiver writing into bucket.
func NewS3Archiver(ctx context.Context, bucket, region string) (*S3Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return &S3Archiver{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: "exports"}, nil
}

// Archive uploads body as a CSV object.
func (a *S3Archiver) Archive(ctx context.Context, name string, body []byte) error {
	key := path.Join(a.prefix, name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload export to S3: %w", err)
	}
	return nil
}

// ArchiveQuietly archives an export when an archiver is configured. Failures
// are logged and otherwise ignored.
func ArchiveQuietly(ctx context.Context, a Archiver, name string, body []byte) {
	if a == nil {
		return
	}
	if err := a.Archive(ctx, name, body); err != nil {
		logging.Warn("export archive failed", map[string]interface{}{"file": name, "error": err.Error()})
	}
}
