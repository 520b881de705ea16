package mediaservice

import (
	"context"
	"io"
	"time"
)

type Category string

const (
	CategoryImage Category = "image"
	CategoryGIF   Category = "gif"
	CategoryVideo Category = "video"
)

// MediaAsset is the canonical reference to a binary held by the remote store.
type MediaAsset struct {
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	Category  Category  `json:"category"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	Duration  *int      `json:"duration,omitempty"`
	Bytes     int64     `json:"bytes"`
	Folder    string    `json:"folder"`
	CreatedAt time.Time `json:"created_at"`
}

type MediaService struct {
	store    StoreClient
	urls     *URLBuilder
	maxBytes int64
}

// StoreClient is the remote object store boundary. Upload reports the
// resource type the store assigned; Delete reports whether the object
// existed upstream.
type StoreClient interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) (bool, error)
}

type UploadResult struct {
	ResourceType string
	Bytes        int64
}
