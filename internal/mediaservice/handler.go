package mediaservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUpstreamUnavailable  = errors.New("media store unavailable")
)

// Single reconciled allow-list for every caller.
var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"video/mp4",
	"video/webm",
}

func NewMediaService(store StoreClient, urls *URLBuilder, maxBytes int64) *MediaService {
	return &MediaService{
		store:    store,
		urls:     urls,
		maxBytes: maxBytes,
	}
}

// Ingest validates the payload, streams it to the remote store and returns
// the canonical asset reference. A payload of exactly maxBytes is accepted.
func (s *MediaService) Ingest(ctx context.Context, data []byte, declaredMimeType, folder string) (*MediaAsset, error) {
	if !mimeTypeAllowed(declaredMimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, declaredMimeType)
	}

	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte ceiling", ErrPayloadTooLarge, len(data), s.maxBytes)
	}

	publicID := path.Join(folder, uuid.NewString())

	res, err := s.store.Upload(ctx, publicID, declaredMimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return &MediaAsset{
		URL:       s.urls.BuildURL(publicID, TransformOptions{Format: formatFor(declaredMimeType)}),
		PublicID:  publicID,
		Category:  categoryFor(res.ResourceType, declaredMimeType),
		Bytes:     res.Bytes,
		Folder:    folder,
		CreatedAt: time.Now(),
	}, nil
}

// Remove is idempotent: deleting an identifier unknown upstream returns
// false rather than an error, so retried deletes after a timeout are safe.
func (s *MediaService) Remove(ctx context.Context, publicID string) (bool, error) {
	existed, err := s.store.Delete(ctx, publicID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return existed, nil
}

// BuildURL exposes display URL construction for a stored asset.
func (s *MediaService) BuildURL(publicID string, opts TransformOptions) string {
	return s.urls.BuildURL(publicID, opts)
}

func mimeTypeAllowed(mimeType string) bool {
	for _, m := range allowedMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// categoryFor maps the store's reported resource type to a category. The
// store cannot tell a gif from any other image, so the declared MIME type
// decides that split.
func categoryFor(resourceType, declaredMimeType string) Category {
	if declaredMimeType == "image/gif" {
		return CategoryGIF
	}

	if resourceType == "video" {
		return CategoryVideo
	}

	return CategoryImage
}

func formatFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	default:
		return "jpg"
	}
}
