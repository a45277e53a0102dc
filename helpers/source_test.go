package helpers

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// SOURCE TESTS
// ============================================================================

type fakeGetter struct {
	objects map[string]string
	bucket  string
	key     string
}

func (f *fakeGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	body, ok := f.objects[f.bucket+"/"+f.key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri, bucket, key string
		wantErr          bool
	}{
		{"s3://rides/2024/ncr.csv", "rides", "2024/ncr.csv", false},
		{"s3://rides/ncr.csv", "rides", "ncr.csv", false},
		{"s3://rides", "", "", true},
		{"s3:///ncr.csv", "", "", true},
		{"/tmp/ncr.csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestOpenerLoadsFromS3(t *testing.T) {
	getter := &fakeGetter{objects: map[string]string{"rides/2024/ncr.csv": feed}}
	opener := NewOpener("ap-south-1").WithClient(getter)

	res, err := opener.LoadSource(context.Background(), "s3://rides/2024/ncr.csv", LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "rides", getter.bucket)
	assert.Equal(t, "2024/ncr.csv", getter.key)
	assert.Equal(t, "s3://rides/2024/ncr.csv", res.Source)
	assert.Equal(t, 3, res.Dataset.Len())
	assert.Equal(t, 2, res.Report.Skipped)
}

func TestOpenerS3Failure(t *testing.T) {
	opener := NewOpener("").WithClient(&fakeGetter{})
	_, err := opener.Open(context.Background(), "s3://rides/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://rides/missing.csv")
}

func TestOpenerLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))

	src, err := NewOpener("").Open(context.Background(), path)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, int64(len(feed)), src.Size)

	res, err := NewOpener("").LoadSource(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Dataset.Len())
}

func TestOpenerErrors(t *testing.T) {
	_, err := NewOpener("").Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewOpener("").Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrSourceNotFound)

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err = NewOpener("").LoadSource(context.Background(), path, LoadOptions{})
	assert.ErrorIs(t, err, ErrEmptyFeed)
}
