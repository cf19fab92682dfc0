package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-server/internal/interfaces"
	"blog-server/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *schemas.User) error
	FindByEmail(ctx context.Context, email string) (*schemas.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*schemas.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*schemas.User, error)
	SetVerified(ctx context.Context, id uuid.UUID) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	ClearVerificationToken(ctx context.Context, id uuid.UUID) error
	AppendPost(ctx context.Context, userId, postId uuid.UUID) error
	RemovePost(ctx context.Context, userId, postId uuid.UUID) error
}

// PostgresUserRepository implements UserRepository on top of a pool or a transaction.
type PostgresUserRepository struct {
	db interfaces.DBTX
}

// NewUserRepository returns a UserRepository bound to the provided DBTX.
func NewUserRepository(db interfaces.DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `user_id, email, name, password, role, is_verified, verification_token,
		verification_expires_at, post_ids, created_at`

func (r *PostgresUserRepository) Create(ctx context.Context, user *schemas.User) error {
	query := `INSERT INTO users (user_id, email, name, password, role, is_verified, verification_token,
		verification_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.Name, user.Password, string(user.Role),
		user.IsVerified, user.VerificationToken, user.VerificationExpiresAt, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*schemas.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// FindByVerificationToken locks the matching row until the surrounding transaction ends.
func (r *PostgresUserRepository) FindByVerificationToken(ctx context.Context, token string) (*schemas.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1 FOR UPDATE`
	return r.scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *PostgresUserRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_verified = true WHERE user_id = $1`
	return r.execOne(ctx, "set verified", query, id)
}

func (r *PostgresUserRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	query := `UPDATE users SET verification_token = $2, verification_expires_at = $3 WHERE user_id = $1`
	return r.execOne(ctx, "set verification token", query, id, token, expiresAt)
}

func (r *PostgresUserRepository) ClearVerificationToken(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET verification_token = NULL, verification_expires_at = NULL WHERE user_id = $1`
	return r.execOne(ctx, "clear verification token", query, id)
}

func (r *PostgresUserRepository) AppendPost(ctx context.Context, userId, postId uuid.UUID) error {
	query := `UPDATE users SET post_ids = array_append(post_ids, $2) WHERE user_id = $1`
	return r.execOne(ctx, "append post", query, userId, postId)
}

func (r *PostgresUserRepository) RemovePost(ctx context.Context, userId, postId uuid.UUID) error {
	query := `UPDATE users SET post_ids = array_remove(post_ids, $2) WHERE user_id = $1`
	return r.execOne(ctx, "remove post", query, userId, postId)
}

func (r *PostgresUserRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	var role string

	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Password, &role, &user.IsVerified,
		&user.VerificationToken, &user.VerificationExpiresAt, &user.PostIDs, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.Role = schemas.Role(role)
	return user, nil
}
