package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(pool *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: pool}
}

// postSelect populates the author summary and the viewer-relative like state
// in one round trip (populate-on-read, the write path stays plain).
const postSelect = `
	SELECT p.id, p.author_id, p.content, p.image_url, p.created_at,
	       u.username, u.avatar_url,
	       (SELECT count(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	       EXISTS(SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, content, image_url, created_at)
		VALUES (@id, @author_id, @content, @image_url, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"created_at": post.CreatedAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, postID, viewerID string) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, postSelect+` WHERE p.id = $2`, viewerID, postID)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: get post: %w", err)
	}
	return post, nil
}

func (r *PostgresPostRepo) ListAll(ctx context.Context, viewerID string) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` ORDER BY p.created_at DESC`, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostgresPostRepo) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` WHERE p.author_id = $2 ORDER BY p.created_at DESC`, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// GetPosts batch-fetches with ANY($2) for timeline hydration.
func (r *PostgresPostRepo) GetPosts(ctx context.Context, postIDs []string, viewerID string) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` WHERE p.id = ANY($2) ORDER BY p.created_at DESC`, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Delete removes the post; comments and likes go via ON DELETE CASCADE.
func (r *PostgresPostRepo) Delete(ctx context.Context, postID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	return err
}

// ToggleLike is one atomic conditional update: INSERT ... ON CONFLICT DO
// NOTHING decides the direction, the same transaction reads the new count.
func (r *PostgresPostRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		postID, userID)
	if err != nil {
		return false, 0, err
	}

	liked := tag.RowsAffected() > 0
	if !liked {
		if _, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
			return false, 0, err
		}
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// --- COMMENTS ---

func (r *PostgresPostRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES (@id, @post_id, @author_id, @content, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         c.ID,
		"post_id":    c.PostID,
		"author_id":  c.AuthorID,
		"content":    c.Content,
		"created_at": c.CreatedAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *PostgresPostRepo) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	q := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, u.username, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1 AND c.id = $2
	`
	c, err := scanComment(r.db.QueryRow(ctx, q, postID, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("db: get comment: %w", err)
	}
	return c, nil
}

func (r *PostgresPostRepo) DeleteComment(ctx context.Context, postID, commentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE post_id = $1 AND id = $2`, postID, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// ListComments keeps the append order: chronological, never reordered.
func (r *PostgresPostRepo) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	q := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, u.username, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// --- SCAN HELPERS ---

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var author domain.UserSummary
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImageURL, &p.CreatedAt,
		&author.Username, &author.AvatarURL, &p.LikeCount, &p.Liked); err != nil {
		return nil, err
	}
	author.ID = p.AuthorID
	p.Author = &author
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	var author domain.UserSummary
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
		&author.Username, &author.AvatarURL); err != nil {
		return nil, err
	}
	author.ID = c.AuthorID
	c.Author = &author
	return &c, nil
}
