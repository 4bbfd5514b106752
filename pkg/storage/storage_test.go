package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader round-trips content through a multipart form so the header
// can be opened like a real upload.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir())

	require.NoError(t, d.Put(ctx, "a/b.txt", []byte("hello"), "text/plain"))
	assert.True(t, d.Exists(ctx, "a/b.txt"))

	rc, err := d.GetStream(ctx, "a/b.txt")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(got))

	require.NoError(t, d.Delete(ctx, "a/b.txt"))
	assert.False(t, d.Exists(ctx, "a/b.txt"))
	assert.NoError(t, d.Delete(ctx, "a/b.txt"))

	_, err = d.GetStream(ctx, "a/b.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanKeyStaysInsideRoot(t *testing.T) {
	key, err := cleanKey("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key)

	_, err = cleanKey("/")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestImagesSaveFitsAndKeepsExtension(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir())
	images := NewImages(d)

	key, err := images.Save(ctx, fileHeader(t, "Burger.PNG", pngBytes(t, 2400, 600)))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f-]{36}\.png$`, key)

	rc, err := d.GetStream(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	img, err := png.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestImagesSaveRejectsNonImages(t *testing.T) {
	images := NewImages(NewLocalDisk(t.TempDir()))

	_, err := images.Save(context.Background(), fileHeader(t, "notes.txt", []byte("hi")))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = images.Save(context.Background(), fileHeader(t, "fake.png", []byte("not a png")))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImagesHandler(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir())
	images := NewImages(d)
	require.NoError(t, d.Put(ctx, "x.png", pngBytes(t, 4, 4), "image/png"))

	srv := http.StripPrefix("/product-file", images.Handler())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product-file/x.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product-file/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManagerUse(t *testing.T) {
	RegisterDisk("memtest", NewLocalDisk(t.TempDir()))
	d, err := Use("memtest")
	require.NoError(t, err)
	assert.NotNil(t, d)

	_, err = Use("nope")
	assert.Error(t, err)
}
