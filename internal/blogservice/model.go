package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/netatlas/contenthub/internal/mediaservice"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrStaleState     = errors.New("moderation status already decided")
	ErrDuplicateSlug  = errors.New("duplicate slug")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// pqError is a helper to check for a named constraint violation.
func pqError(err error, code pq.ErrorCode, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == code && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// insert persists the post and its media asset in a single transaction so
// either both rows land or neither does.
func (m *BlogModel) insert(ctx context.Context, post *BlogPost) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (slug, title, introduction, body, conclusion, tags, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, published, created_at, updated_at, version`

	args := []any{
		post.Slug,
		post.Title,
		post.Introduction,
		post.Body,
		post.Conclusion,
		pq.Array(post.Tags),
		post.UserID,
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.Status, &post.Published, &post.CreatedAt, &post.UpdatedAt, &post.Version)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case pqError(err, "23505", "blogs_slug_key"):
			return ErrDuplicateSlug
		case pqError(err, "23503", "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	if post.Media != nil {
		query := `
			INSERT INTO media_assets (blog_id, url, public_id, category, width, height, duration, bytes, folder)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err = tx.ExecContext(ctx, query, post.ID, post.Media.URL, post.Media.PublicID, string(post.Media.Category), post.Media.Width, post.Media.Height, post.Media.Duration, post.Media.Bytes, post.Media.Folder)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

const blogColumns = `
	b.id, b.slug, b.title, b.introduction, b.body, b.conclusion, b.tags,
	b.status, b.published, b.moderation_note, b.user_id, b.created_at, b.updated_at, b.version,
	u.name, u.email,
	ma.url, ma.public_id, ma.category, ma.width, ma.height, ma.duration, ma.bytes, ma.folder`

func scanBlogPost(row *sql.Row) (*BlogPost, error) {
	var post BlogPost
	var note sql.NullString
	var mediaURL, mediaPublicID, mediaCategory, mediaFolderCol sql.NullString
	var mediaWidth, mediaHeight, mediaDuration sql.NullInt64
	var mediaBytes sql.NullInt64

	err := row.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Introduction, &post.Body, &post.Conclusion, pq.Array(&post.Tags),
		&post.Status, &post.Published, &note, &post.UserID, &post.CreatedAt, &post.UpdatedAt, &post.Version,
		&post.AuthorName, &post.AuthorEmail,
		&mediaURL, &mediaPublicID, &mediaCategory, &mediaWidth, &mediaHeight, &mediaDuration, &mediaBytes, &mediaFolderCol,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	post.ModerationNote = note.String

	if mediaPublicID.Valid {
		post.Media = &mediaservice.MediaAsset{
			URL:      mediaURL.String,
			PublicID: mediaPublicID.String,
			Category: mediaservice.Category(mediaCategory.String),
			Bytes:    mediaBytes.Int64,
			Folder:   mediaFolderCol.String,
		}
		if mediaWidth.Valid {
			w := int(mediaWidth.Int64)
			post.Media.Width = &w
		}
		if mediaHeight.Valid {
			h := int(mediaHeight.Int64)
			post.Media.Height = &h
		}
		if mediaDuration.Valid {
			d := int(mediaDuration.Int64)
			post.Media.Duration = &d
		}
	}

	return &post, nil
}

func (m *BlogModel) getByID(ctx context.Context, id int) (*BlogPost, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		LEFT JOIN media_assets ma ON ma.blog_id = b.id
		WHERE b.id = $1`, blogColumns)

	return scanBlogPost(m.db.QueryRowContext(ctx, query, id))
}

func (m *BlogModel) getPublishedBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		LEFT JOIN media_assets ma ON ma.blog_id = b.id
		WHERE b.slug = $1 AND b.status = 'approved' AND b.published = TRUE`, blogColumns)

	return scanBlogPost(m.db.QueryRowContext(ctx, query, slug))
}

// transition commits a moderation decision only if the record is still
// pending at write time. A lost race surfaces as ErrStaleState so the
// caller can re-fetch instead of silently overwriting the other decision.
func (m *BlogModel) transition(ctx context.Context, id int, status Status, published bool, note string) (*BlogPost, error) {
	query := `
		UPDATE blogs
		SET status = $1, published = $2, moderation_note = NULLIF($3, ''), updated_at = NOW(), version = version + 1
		WHERE id = $4 AND status = 'pending'`

	res, err := m.db.ExecContext(ctx, query, string(status), published, note, id)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		var exists bool
		if err := m.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)", id).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrStaleState
		}
		return nil, ErrRecordNotFound
	}

	return m.getByID(ctx, id)
}

// deleteBlog removes the record; the media_assets row goes with it via the
// foreign key cascade.
func (m *BlogModel) deleteBlog(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) listByStatus(ctx context.Context, status Status) ([]BlogPostSummary, error) {
	query := `
		SELECT b.id, b.slug, b.title, u.name, b.published, b.created_at, COALESCE(ma.url, '')
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		LEFT JOIN media_assets ma ON ma.blog_id = b.id
		WHERE b.status = $1
		ORDER BY b.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []BlogPostSummary{}
	for rows.Next() {
		var s BlogPostSummary
		err := rows.Scan(&s.ID, &s.Slug, &s.Title, &s.AuthorName, &s.Published, &s.CreatedAt, &s.MediaURL)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
