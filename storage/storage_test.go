package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"OfflinePlayer/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"song.mp3", "song.mp3", false},
		{"albums/blue/01.mp3", "albums/blue/01.mp3", false},
		{"/abs/path.mp3", "abs/path.mp3", false},
		{`win\dir\a.mp3`, "win/dir/a.mp3", false},
		{"./a//b.mp3", "a/b.mp3", false},
		{"../etc/passwd", "", true},
		{"a/../../b", "", true},
		{"", "", true},
		{"/", "", true},
	}

	for _, test := range tests {
		got, err := CleanKey(test.in)
		if test.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPath, "input %q", test.in)
			continue
		}
		require.NoError(t, err, "input %q", test.in)
		assert.Equal(t, test.want, got)
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", DetectContentType("a/B.MP3"))
	assert.Equal(t, "audio/flac", DetectContentType("x.flac"))
	assert.Equal(t, "application/octet-stream", DetectContentType("cover.jpg"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "3.0 MB", FormatSize(3*1024*1024))
}

func TestLocalStore_PutOpenList(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "b.mp3", strings.NewReader("bbb"), 3, ""))
	require.NoError(t, store.Put(ctx, "a.wav", strings.NewReader("a"), 1, ""))

	obj, err := store.Open(ctx, "b.mp3")
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(data))
	assert.Equal(t, int64(3), obj.Size)
	assert.Equal(t, "audio/mpeg", obj.ContentType)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.mp3"}, names)

	_, err = store.Open(ctx, "missing.mp3")
	assert.True(t, errors.Is(err, ErrMediaNotFound))

	_, err = store.Open(ctx, "../outside.mp3")
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestLocalStore_ListMissingDir(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	_, err := store.List(context.Background(), "")
	assert.ErrorIs(t, err, ErrMediaDirMissing)

	assert.ErrorIs(t, store.Watch(context.Background()), ErrMediaDirMissing)
}

func TestLocalStore_WatchKeepsIndexCurrent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.mp3"), []byte("x"), 0644))

	store := NewLocalStore(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first.mp3"}, names)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.mp3"), []byte("y"), 0644))
	assert.Eventually(t, func() bool {
		names, _ := store.List(ctx, "")
		return len(names) == 2
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "first.mp3")))
	assert.Eventually(t, func() bool {
		names, _ := store.List(ctx, "")
		return len(names) == 1 && names[0] == "second.mp3"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewMediaStore(t *testing.T) {
	store, err := NewMediaStore(&config.Config{MediaBackend: config.MediaBackendLocal, MediaDir: "songs"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	store, err = NewMediaStore(&config.Config{MediaBackend: config.MediaBackendMinio, MinioEndpoint: "127.0.0.1:9000", MinioBucket: "songs"})
	require.NoError(t, err)
	assert.IsType(t, &MinioStore{}, store)

	_, err = NewMediaStore(&config.Config{MediaBackend: "ftp"})
	assert.Error(t, err)
}
