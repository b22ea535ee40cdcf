package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	miniosdk "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (f *fakeAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ miniosdk.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, _, object string, r io.Reader, _ int64, opts miniosdk.PutObjectOptions) (miniosdk.UploadInfo, error) {
	if f.putErr != nil {
		return miniosdk.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return miniosdk.UploadInfo{}, err
	}
	f.objects[object] = data
	f.types[object] = opts.ContentType
	return miniosdk.UploadInfo{Key: object, Size: int64(len(data))}, nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, _, object string, _ miniosdk.RemoveObjectOptions) error {
	delete(f.objects, object)
	return nil
}

func (f *fakeAPI) PresignedGetObject(_ context.Context, bucket, object string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.example.com/" + bucket + "/" + object + "?sig=abc")
}

func TestClient_EnsureBucketCreatesOnce(t *testing.T) {
	api := newFakeAPI()
	c := NewClientWithAPI(api, "nebula-assets", nil)

	require.NoError(t, c.EnsureBucket(context.Background()))
	assert.True(t, api.buckets["nebula-assets"])

	// Second call is a no-op.
	require.NoError(t, c.EnsureBucket(context.Background()))
}

func TestBlobStore_PutAndDelete(t *testing.T) {
	api := newFakeAPI()
	store := NewBlobStore(NewClientWithAPI(api, "nebula-assets", nil))

	payload := []byte("demo deck")
	err := store.Put(context.Background(), "sub-1/deck.pdf", bytes.NewReader(payload), int64(len(payload)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, api.objects["sub-1/deck.pdf"])
	assert.Equal(t, "application/pdf", api.types["sub-1/deck.pdf"])

	require.NoError(t, store.Delete(context.Background(), "sub-1/deck.pdf"))
	assert.NotContains(t, api.objects, "sub-1/deck.pdf")
}

func TestBlobStore_PutFailure(t *testing.T) {
	api := newFakeAPI()
	api.putErr = assert.AnError
	store := NewBlobStore(NewClientWithAPI(api, "nebula-assets", nil))

	err := store.Put(context.Background(), "k", bytes.NewReader(nil), 0, "")
	assert.Error(t, err)
}

func TestBlobStore_PresignedGetURL(t *testing.T) {
	store := NewBlobStore(NewClientWithAPI(newFakeAPI(), "nebula-assets", nil))

	u, err := store.PresignedGetURL(context.Background(), "sub-1/deck.pdf", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "nebula-assets/sub-1/deck.pdf")
}
