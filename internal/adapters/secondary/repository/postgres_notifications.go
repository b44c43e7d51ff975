package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

const postExcerptLen = 120

type PostgresNotificationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresNotificationRepo(pool *pgxpool.Pool) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{db: pool}
}

func (r *PostgresNotificationRepo) Save(ctx context.Context, n *domain.Notification) error {
	q := `
		INSERT INTO notifications (id, recipient_id, sender_id, kind, post_id, read, created_at)
		VALUES (@id, @recipient_id, @sender_id, @kind, @post_id, @read, @created_at)
	`
	// NULL instead of empty string keeps the FK on post_id honest.
	var postID *string
	if n.PostID != "" {
		postID = &n.PostID
	}
	args := pgx.NamedArgs{
		"id":           n.ID,
		"recipient_id": n.RecipientID,
		"sender_id":    n.SenderID,
		"kind":         string(n.Kind),
		"post_id":      postID,
		"read":         n.Read,
		"created_at":   n.CreatedAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

// ListForRecipient populates the sender summary and the post excerpt in the
// same query instead of storing them denormalized at write time.
func (r *PostgresNotificationRepo) ListForRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	q := `
		SELECT n.id, n.recipient_id, n.sender_id, n.kind, COALESCE(n.post_id::text, ''), n.read, n.created_at,
		       u.username, u.avatar_url,
		       COALESCE(left(p.content, $3), '')
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		LEFT JOIN posts p ON p.id = n.post_id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, q, userID, limit, postExcerptLen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var sender domain.UserSummary
		var kind string
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &kind, &n.PostID, &n.Read, &n.CreatedAt,
			&sender.Username, &sender.AvatarURL, &n.PostExcerpt); err != nil {
			return nil, err
		}
		n.Kind = domain.NotificationKind(kind)
		sender.ID = n.SenderID
		n.Sender = &sender
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkAllRead flips every unread row for the recipient. The read=false guard
// makes the call idempotent: a second call reports zero updates.
func (r *PostgresNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
