package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the relational schema if it does not exist yet
// (idempotent, same spirit as the graph repository's constraint setup).
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			username      TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			bio           TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         UUID PRIMARY KEY,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content    TEXT NOT NULL DEFAULT '',
			image_url  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts (author_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         UUID PRIMARY KEY,
			post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments (post_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id           UUID PRIMARY KEY,
			recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			sender_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind         TEXT NOT NULL,
			post_id      UUID REFERENCES posts(id) ON DELETE SET NULL,
			read         BOOLEAN NOT NULL DEFAULT false,
			created_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient_created ON notifications (recipient_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
