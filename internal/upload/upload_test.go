package upload

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netslap-dev/netslap/shared/config"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) multipart.File {
	return memFile{bytes.NewReader(data)}
}

func testStore(t *testing.T) *Store {
	cfg := config.Default().Public
	cfg.MediaDir = t.TempDir()
	store, err := NewStore(cfg)
	require.NoError(t, err)
	return store
}

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestSaveImage(t *testing.T) {
	store := testStore(t)
	data := pngBytes(t, 600, 400)

	media, err := store.Save(newMemFile(data), &multipart.FileHeader{Filename: "cat.png", Size: int64(len(data))})
	require.NoError(t, err)

	assert.Equal(t, "cat.png", media.Name)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, int64(len(data)), media.Size)
	assert.NotEqual(t, "cat.png", media.Location, "stored name must be randomized")

	_, err = os.Stat(filepath.Join(store.dir, media.Location))
	assert.NoError(t, err)

	require.NotEmpty(t, media.Thumbnail)
	f, err := os.Open(filepath.Join(store.dir, media.Thumbnail))
	require.NoError(t, err)
	defer f.Close()
	thumbCfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, thumbCfg.Width, thumbMaxSize)
	assert.LessOrEqual(t, thumbCfg.Height, thumbMaxSize)
}

func TestSaveSmallImageKeepsDimensions(t *testing.T) {
	store := testStore(t)
	data := pngBytes(t, 50, 40)

	media, err := store.Save(newMemFile(data), &multipart.FileHeader{Filename: "tiny.png", Size: int64(len(data))})
	require.NoError(t, err)
	require.NotEmpty(t, media.Thumbnail)

	f, err := os.Open(filepath.Join(store.dir, media.Thumbnail))
	require.NoError(t, err)
	defer f.Close()
	thumbCfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 50, thumbCfg.Width)
	assert.Equal(t, 40, thumbCfg.Height)
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := testStore(t)
	data := []byte("%PDF-1.4 not an image at all")

	_, err := store.Save(newMemFile(data), &multipart.FileHeader{Filename: "doc.pdf", Size: int64(len(data))})
	assert.Error(t, err)
}

func TestSaveRejectsOversize(t *testing.T) {
	cfg := config.Default().Public
	cfg.MediaDir = t.TempDir()
	cfg.MaxUploadSize = 10
	store, err := NewStore(cfg)
	require.NoError(t, err)

	data := pngBytes(t, 10, 10)
	_, err = store.Save(newMemFile(data), &multipart.FileHeader{Filename: "big.png", Size: int64(len(data))})
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	store := testStore(t)
	data := pngBytes(t, 30, 30)

	media, err := store.Save(newMemFile(data), &multipart.FileHeader{Filename: "gone.png", Size: int64(len(data))})
	require.NoError(t, err)

	require.NoError(t, store.Remove(media))
	_, err = os.Stat(filepath.Join(store.dir, media.Location))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, store.Remove(media))
}

func TestOpenRefusesPathTraversal(t *testing.T) {
	store := testStore(t)

	_, err := store.Open("../../../etc/passwd")
	assert.Error(t, err)
}
