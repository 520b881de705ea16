package blogservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/netatlas/contenthub/internal/common"
	"github.com/netatlas/contenthub/internal/userservice"
)

var ErrInactiveAuthor = errors.New("author account is not active")

func NewBlogService(db *sql.DB, media MediaIngestor, mb common.MessageProducer, c *common.Cache) *BlogService {
	return &BlogService{
		m:     newBlogModel(db),
		media: media,
		mb:    mb,
		c:     c,
	}
}

type SubmitRequest struct {
	Title        string
	Introduction string
	Body         string
	Conclusion   string
	Tags         []string
	Media        *MediaUpload
	Author       *userservice.User
}

// Submit creates a post in pending status. The media asset, if any, is
// ingested first: an upstream failure aborts the whole submission with no
// record left behind, and an insert failure triggers a compensating remote
// delete so the store holds no orphaned object.
func (s *BlogService) Submit(ctx context.Context, req *SubmitRequest) (*BlogPost, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBodyField(v, req.Introduction, "introduction")
	validateBodyField(v, req.Body, "body")
	validateBodyField(v, req.Conclusion, "conclusion")
	validateTags(v, req.Tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.Author == nil || !req.Author.IsActive() {
		return nil, ErrInactiveAuthor
	}

	post := &BlogPost{
		Slug:         Slugify(req.Title),
		Title:        req.Title,
		Introduction: sanitizeMarkdown(req.Introduction),
		Body:         sanitizeMarkdown(req.Body),
		Conclusion:   sanitizeMarkdown(req.Conclusion),
		Tags:         req.Tags,
		UserID:       req.Author.ID,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if req.Media != nil {
		asset, err := s.media.Ingest(ctx, req.Media.Data, req.Media.MimeType, mediaFolder)
		if err != nil {
			return nil, err
		}
		post.Media = asset
	}

	err := s.m.insert(ctx, post)
	if errors.Is(err, ErrDuplicateSlug) {
		// same title submitted before; disambiguate and retry once
		post.Slug = fmt.Sprintf("%s-%s", post.Slug, uuid.NewString()[:8])
		err = s.m.insert(ctx, post)
	}
	if err != nil {
		if post.Media != nil {
			s.media.Remove(ctx, post.Media.PublicID)
		}
		return nil, err
	}

	post.AuthorName = req.Author.Name
	post.AuthorEmail = req.Author.Email

	return post, nil
}

// Approve moves a pending post to approved, optionally publishing it in the
// same decision. Only pending posts can be approved; a post already decided
// by another moderator surfaces as ErrStaleState.
func (s *BlogService) Approve(ctx context.Context, id int, publish bool) (*BlogPost, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post, err := s.m.transition(ctx, id, StatusApproved, publish, "")
	if err != nil {
		return nil, err
	}

	if err := s.publishDecision(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Reject moves a pending post to rejected. The moderation note is a hard
// precondition: an empty or whitespace-only note fails validation before
// any write is attempted.
func (s *BlogService) Reject(ctx context.Context, id int, note string) (*BlogPost, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateNote(v, note)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post, err := s.m.transition(ctx, id, StatusRejected, false, note)
	if err != nil {
		return nil, err
	}

	if err := s.publishDecision(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes a post from any state and cascades to its media asset.
// The remote object is removed first: if the store is unreachable the
// record stays intact, so retrying the delete later is safe. Remove is
// idempotent upstream, so a partially completed earlier attempt does not
// wedge the retry.
func (s *BlogService) Delete(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	post, err := s.m.getByID(ctx, id)
	if err != nil {
		return err
	}

	if post.Media != nil {
		if _, err := s.media.Remove(ctx, post.Media.PublicID); err != nil {
			return err
		}
	}

	if err := s.m.deleteBlog(ctx, post.ID); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPostBySlug(post.Slug))

	return nil
}

// ListByStatus is the moderation queue projection. It includes unpublished
// approved posts; the public surface reads published posts by slug instead.
func (s *BlogService) ListByStatus(ctx context.Context, status Status) ([]BlogPostSummary, error) {
	v := common.NewValidator()
	validateStatus(v, status)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listByStatus(ctx, status)
}

// GetPublishedBySlug serves the public read path: approved and published
// records only, cached by slug.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	v := common.NewValidator()
	v.Check(common.NotBlank(slug), "slug", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPostBySlug(slug)); ok {
		if post, ok := cached.(*BlogPost); ok {
			return post, nil
		}
	}

	post, err := s.m.getPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPostBySlug(slug), post, 5*time.Minute)

	return post, nil
}

func (s *BlogService) publishDecision(ctx context.Context, post *BlogPost) error {
	event := DecidedEvent{
		Email:  post.AuthorEmail,
		Title:  post.Title,
		Status: post.Status,
		Note:   post.ModerationNote,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.mb.Publish(ctx, data, common.BlogDecidedKey, common.BlogExchange)
}
