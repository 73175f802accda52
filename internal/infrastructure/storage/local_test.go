package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"clinic-management-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutOpenDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := NewKey("documents", 7, "pdf")
	assert.True(t, strings.HasPrefix(key, "documents/7/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	body := "%PDF-1.4\n%test"
	require.NoError(t, s.Put(ctx, key, "application/pdf", strings.NewReader(body), int64(len(body))))

	obj, url, err := s.Open(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, url)
	defer obj.Body.Close()

	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(len(body)), obj.Size)

	require.NoError(t, s.Delete(ctx, key))
	_, _, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "../outside.txt", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
