// Package mocks holds testify mocks for the storage client.
package mocks

import (
	"context"
	"io"
	"strings"

	"collection-merge/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

var _ storage.Client = (*Client)(nil)

// Client records calls made against the sheet and output bucket.
type Client struct {
	mock.Mock
}

func (m *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *Client) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, key, reader, size, opts)
	info, _ := args.Get(0).(minio.UploadInfo)
	return info, args.Error(1)
}

// GetObject returns the stubbed body, or nil when the stub returned nil.
func (m *Client) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key, opts)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

// ListObjects returns the stubbed channel or an empty, closed one.
func (m *Client) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucket, opts)
	if ch, ok := args.Get(0).(<-chan minio.ObjectInfo); ok {
		return ch
	}
	return Objects()
}

// Object wraps body as a GetObject result.
func Object(body string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(body))
}

// Objects returns a closed channel yielding infos, for ListObjects stubs.
func Objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}
