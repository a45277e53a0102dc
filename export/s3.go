package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/spektr-org/ridepulse/helpers"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes exports under Bucket/Prefix.
type Uploader struct {
	client ObjectPutter
	Bucket string
	Prefix string
}

// NewUploader creates an Uploader backed by the default AWS configuration.
func NewUploader(ctx context.Context, region, bucket, prefix string) (*Uploader, error) {
	client, err := helpers.NewS3Client(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewUploaderWithClient(client, bucket, prefix), nil
}

// NewUploaderWithClient creates an Uploader around an existing client.
func NewUploaderWithClient(client ObjectPutter, bucket, prefix string) *Uploader {
	return &Uploader{client: client, Bucket: bucket, Prefix: prefix}
}

// Key joins the uploader prefix and name.
func (u *Uploader) Key(name string) string {
	if u.Prefix == "" {
		return name
	}
	return path.Join(u.Prefix, name)
}

// Upload puts data at Key(name) and returns its s3:// URI.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if u.Bucket == "" {
		return "", fmt.Errorf("%w: no bucket configured", helpers.ErrInvalidSource)
	}
	key := u.Key(name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload %s to S3: %w", key, err)
	}
	return "s3://" + u.Bucket + "/" + key, nil
}
