package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryImageStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryImageStore("https://media.test")
	s.now = func() time.Time { return pinnedNow }

	u, expiresAt, err := s.GenerateUploadURL(ctx, "variants/v1/a.webp", "image/webp", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/variants/v1/a.webp?content_type=image%2Fwebp&expires=1749981660", u)
	assert.Equal(t, pinnedNow.Add(time.Minute), expiresAt)

	exists, err := s.ObjectExists(ctx, "variants/v1/a.webp")
	require.NoError(t, err)
	assert.False(t, exists, "not uploaded yet")

	require.NoError(t, s.Put(ctx, "variants/v1/a.webp", "image/webp", []byte{0x52, 0x49}))
	exists, err = s.ObjectExists(ctx, "variants/v1/a.webp")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, s.Len())

	d, _, err := s.GenerateDownloadURL(ctx, "variants/v1/a.webp", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/variants/v1/a.webp", d)

	require.NoError(t, s.DeleteObject(ctx, "variants/v1/a.webp"))
	assert.Zero(t, s.Len())

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrStorageKeyRequired)
}

func TestMemoryImageStore_AssumeUploaded(t *testing.T) {
	s := NewMemoryImageStore("")
	s.AssumeUploaded = true

	exists, err := s.ObjectExists(context.Background(), "variants/v9/anything.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "http://localhost:8080/media", s.BaseURL)
}
