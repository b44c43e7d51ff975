package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

// sqlUser buffers between the database row and the domain entity.
type sqlUser struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, email, username, password_hash, bio, avatar_url, created_at, updated_at)
		VALUES (@id, @email, @username, @password_hash, @bio, @avatar_url, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"bio":           user.Bio,
		"avatar_url":    user.AvatarURL,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translateUserError(err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT id, email, username, password_hash, bio, avatar_url, created_at, updated_at FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT id, email, username, password_hash, bio, avatar_url, created_at, updated_at FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

func (r *PostgresUserRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET email = @email, bio = @bio, avatar_url = @avatar_url,
		    password_hash = @password_hash, updated_at = @updated_at
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"bio":           user.Bio,
		"avatar_url":    user.AvatarURL,
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return translateUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepo) Search(ctx context.Context, query string) ([]*domain.User, error) {
	q := `
		SELECT id, email, username, password_hash, bio, avatar_url, created_at, updated_at
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT 50
	`
	rows, err := r.db.Query(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("db: search users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u sqlUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u.toDomain())
	}
	return users, rows.Err()
}

// --- HELPERS ---

func (r *PostgresUserRepo) scanOne(row pgx.Row) (*domain.User, error) {
	var u sqlUser
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: get user: %w", err)
	}
	return u.toDomain(), nil
}

func (u *sqlUser) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// translateUserError maps PostgreSQL error codes onto domain errors.
func translateUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailAlreadyExists
	}
	return err
}
