package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ============================================================================
// SOURCES — local files and s3://bucket/key objects
// ============================================================================

// ObjectGetter is the subset of the S3 client used to read feeds.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source is an opened feed.
type Source struct {
	io.ReadCloser
	Name string
	Size int64 // bytes, -1 when unknown
}

// Opener resolves source URIs. The S3 client is created on first use.
type Opener struct {
	Region string
	client ObjectGetter
}

// NewOpener returns an Opener for region. An empty region defers to the
// AWS default chain.
func NewOpener(region string) *Opener {
	return &Opener{Region: region}
}

// WithClient sets the S3 client explicitly.
func (o *Opener) WithClient(c ObjectGetter) *Opener {
	o.client = c
	return o
}

// Open opens a local path or an s3://bucket/key URI.
func (o *Opener) Open(ctx context.Context, uri string) (*Source, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidSource)
	}
	if strings.HasPrefix(uri, "s3://") {
		return o.openS3(ctx, uri)
	}
	return openFile(uri)
}

func openFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	size := int64(-1)
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	return &Source{ReadCloser: f, Name: path, Size: size}, nil
}

func (o *Opener) openS3(ctx context.Context, uri string) (*Source, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if o.client == nil {
		client, err := NewS3Client(ctx, o.Region)
		if err != nil {
			return nil, err
		}
		o.client = client
	}

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s: %w", uri, err)
	}
	size := int64(-1)
	if out.ContentLength != nil {
		size = aws.ToInt64(out.ContentLength)
	}
	return &Source{ReadCloser: out.Body, Name: uri, Size: size}, nil
}

// NewS3Client loads the default AWS configuration for region.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// ParseS3URI splits "s3://bucket/path/to/key".
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 URI", ErrInvalidSource, uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and key", ErrInvalidSource, uri)
	}
	return bucket, key, nil
}

// LoadSource opens uri and loads it with opts.
func (o *Opener) LoadSource(ctx context.Context, uri string, opts LoadOptions) (*LoadResult, error) {
	src, err := o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ds, report, err := Load(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name, err)
	}
	return &LoadResult{Dataset: ds, Report: report, Source: src.Name}, nil
}
