// Package upload stores post attachments on the local filesystem.
package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

const thumbMaxSize = 200

// maxDecodedSize guards against decompression bombs: a crafted header can
// claim huge dimensions and make image.Decode allocate gigabytes.
const maxDecodedSize = 64 << 20

var extByMime = map[string]string{
	"image/gif":  ".gif",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"video/webm": ".webm",
	"video/mp4":  ".mp4",
}

type Store struct {
	dir           string
	maxSize       int64
	allowedImage  []string
	allowedVideo  []string
}

func NewStore(cfg config.Public) (*Store, error) {
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &Store{
		dir:          cfg.MediaDir,
		maxSize:      cfg.MaxUploadSize,
		allowedImage: cfg.AllowedImageMimeTypes,
		allowedVideo: cfg.AllowedVideoMimeTypes,
	}, nil
}

// Save validates the upload, writes it under a random name and, for images,
// writes a scaled jpeg thumbnail next to it. The detected content type wins
// over whatever the client declared.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (*domain.Media, error) {
	if header.Size > s.maxSize {
		return nil, internal_errors.BadRequest("File is too large")
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, internal_errors.BadRequest("File is too large")
	}

	mimeType := http.DetectContentType(data)
	isImage := s.allowed(s.allowedImage, mimeType)
	isVideo := s.allowed(s.allowedVideo, mimeType)
	if !isImage && !isVideo {
		return nil, internal_errors.BadRequest("Unsupported file type")
	}

	name := uuid.NewString() + extByMime[mimeType]
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	media := &domain.Media{
		Name:     header.Filename,
		Location: name,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}

	if isImage {
		thumb, err := s.saveThumbnail(name, data)
		if err != nil {
			// thumbnail is best-effort, the full image is already stored
			return media, nil
		}
		media.Thumbnail = thumb
	}
	return media, nil
}

// Remove deletes a stored attachment and its thumbnail.
func (s *Store) Remove(media *domain.Media) error {
	if media == nil {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, media.Location)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media: %w", err)
	}
	if media.Thumbnail != "" {
		if err := os.Remove(filepath.Join(s.dir, media.Thumbnail)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove thumbnail: %w", err)
		}
	}
	return nil
}

// Open returns a reader over a stored attachment for the serving handler.
func (s *Store) Open(location string) (*os.File, error) {
	clean := filepath.Base(location)
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal_errors.NotFound("Media not found")
		}
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	return f, nil
}

func (s *Store) saveThumbnail(name string, data []byte) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if int64(cfg.Width)*int64(cfg.Height)*4 > maxDecodedSize {
		return "", fmt.Errorf("image too large to thumbnail: %dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	w, h := fitThumb(bounds.Dx(), bounds.Dy())
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	thumbName := strings.TrimSuffix(name, filepath.Ext(name)) + "_thumb.jpg"
	out, err := os.Create(filepath.Join(s.dir, thumbName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return thumbName, nil
}

// fitThumb scales dimensions down to fit thumbMaxSize while keeping the
// aspect ratio; images already small enough pass through.
func fitThumb(w, h int) (int, int) {
	if w <= thumbMaxSize && h <= thumbMaxSize {
		return w, h
	}
	if w >= h {
		return thumbMaxSize, h * thumbMaxSize / w
	}
	return w * thumbMaxSize / h, thumbMaxSize
}

func (s *Store) allowed(list []string, mimeType string) bool {
	for _, m := range list {
		if m == mimeType {
			return true
		}
	}
	return false
}
