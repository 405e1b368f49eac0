package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/storage"
)

// extensions lists the content types accepted for upload. Scriptable
// formats such as SVG and HTML are never written to the disk.
var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// MediaStore decides where uploaded images and documents live. In "inline"
// mode the submitted string (data URL or link) is stored as is; in "disk"
// mode data URLs are decoded and written to the storage disk, and the disk
// URL is stored instead.
type MediaStore struct {
	disk storage.Disk
	mode string
}

func NewMediaStore(disk storage.Disk, mode string) *MediaStore {
	if disk == nil {
		mode = "inline"
	}
	return &MediaStore{disk: disk, mode: mode}
}

// Store returns the URL to persist for raw, writing data URLs under prefix
// when the store is disk backed.
func (m *MediaStore) Store(ctx context.Context, prefix, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperror.Invalid("Image URL is required", nil)
	}
	if m.mode != "disk" || !strings.HasPrefix(raw, "data:") {
		return raw, nil
	}

	contentType, data, err := decodeDataURL(raw)
	if err != nil {
		return "", apperror.Invalid("Invalid image data", nil)
	}

	ext, ok := extensions[contentType]
	if !ok {
		return "", apperror.Invalid("Unsupported file type", nil)
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, strings.ToLower(ulid.Make().String()), ext)
	if err := m.disk.Put(ctx, key, data, contentType); err != nil {
		return "", apperror.Internal(err)
	}
	return m.disk.URL(key), nil
}

// Forget deletes the stored object behind url if this store wrote it.
// Failures are logged; the database row is already gone.
func (m *MediaStore) Forget(ctx context.Context, url string) {
	if m.disk == nil {
		return
	}
	base := m.disk.URL("")
	if !strings.HasPrefix(url, base) {
		return
	}
	if err := m.disk.Delete(ctx, strings.TrimPrefix(url, base)); err != nil {
		logger.WithCtx(ctx).Warn("media: delete failed", "url", url, "error", err)
	}
}

// uploads records the objects written for one request so they can be
// removed when the database write that references them fails. URLs that
// were passed through unchanged are never recorded.
type uploads struct {
	media *MediaStore
	urls  []string
}

func (m *MediaStore) batch() *uploads { return &uploads{media: m} }

func (u *uploads) store(ctx context.Context, prefix, raw string) (string, error) {
	url, err := u.media.Store(ctx, prefix, raw)
	if err != nil {
		return "", err
	}
	if url != strings.TrimSpace(raw) {
		u.urls = append(u.urls, url)
	}
	return url, nil
}

func (u *uploads) discard(ctx context.Context) {
	for _, url := range u.urls {
		u.media.Forget(ctx, url)
	}
	u.urls = nil
}

// decodeDataURL parses "data:<type>;base64,<payload>".
func decodeDataURL(raw string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("data url: missing payload")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data url: only base64 payloads are supported")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data url: %w", err)
	}
	return strings.ToLower(contentType), data, nil
}
