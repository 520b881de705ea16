package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/netatlas/contenthub/internal/common"
	"github.com/netatlas/contenthub/internal/mediaservice"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// mediaFolder is the namespace owning every asset ingested for a post.
const mediaFolder = "blog"

type BlogPost struct {
	ID             int                       `json:"id"`
	Slug           string                    `json:"slug"`
	Title          string                    `json:"title"`
	AuthorName     string                    `json:"author_name"`
	AuthorEmail    string                    `json:"-"`
	UserID         int                       `json:"user_id"`
	Introduction   string                    `json:"introduction"`
	Body           string                    `json:"body"`
	Conclusion     string                    `json:"conclusion"`
	Tags           []string                  `json:"tags"`
	Media          *mediaservice.MediaAsset  `json:"media,omitempty"`
	Status         Status                    `json:"status"`
	Published      bool                      `json:"published"`
	ModerationNote string                    `json:"moderation_note,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	Version        int                       `json:"version"`
}

// BlogPostSummary is the moderation queue projection.
type BlogPostSummary struct {
	ID         int       `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	MediaURL   string    `json:"media_url,omitempty"`
}

// MediaUpload is a raw payload attached to a submission.
type MediaUpload struct {
	Data     []byte
	MimeType string
}

// MediaIngestor is the slice of the media service the lifecycle manager
// depends on.
type MediaIngestor interface {
	Ingest(ctx context.Context, data []byte, declaredMimeType, folder string) (*mediaservice.MediaAsset, error)
	Remove(ctx context.Context, publicID string) (bool, error)
}

// DecidedEvent is published to the broker after each moderation decision.
type DecidedEvent struct {
	Email  string `json:"email"`
	Title  string `json:"title"`
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m     *BlogModel
	media MediaIngestor
	mb    common.MessageProducer
	c     *common.Cache
}
