package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxImageSide bounds both dimensions of a stored image.
const MaxImageSide = 1200

// ErrInvalidImage is returned when an upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("storage: upload is not a supported image")

// Images stores catalog pictures on a Disk.
type Images struct {
	disk Disk
}

func NewImages(d Disk) *Images {
	return &Images{disk: d}
}

// Save decodes the upload, fits it into MaxImageSide×MaxImageSide and writes
// it under a random name that keeps the original extension. It returns the
// key to persist as the record's path.
func (i *Images) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	format, err := imaging.FormatFromFilename(fh.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidImage, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return "", fmt.Errorf("storage: encode image: %w", err)
	}

	key := uuid.NewString() + ext
	if err := i.disk.Put(ctx, key, buf.Bytes(), mime.TypeByExtension(ext)); err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes a stored image. An empty key is ignored.
func (i *Images) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return i.disk.Delete(ctx, key)
}

// Handler serves stored images by key. Mount it behind http.StripPrefix.
func (i *Images) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")

		rc, err := i.disk.GetStream(r.Context(), key)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidPath) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.Copy(w, rc)
	})
}
