package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog-server/internal/interfaces"
	"blog-server/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostRepository is the post and engagement store. Likes and comments live in the post row,
// so every engagement mutation is a single row update.
type PostRepository interface {
	Create(ctx context.Context, post *schemas.Post) error
	Get(ctx context.Context, id uuid.UUID, viewerId *uuid.UUID) (*schemas.Post, error)
	List(ctx context.Context, viewerId *uuid.UUID, limit, offset int) ([]schemas.Post, error)
	Count(ctx context.Context) (int, error)
	ListByAuthor(ctx context.Context, authorId uuid.UUID, viewerId *uuid.UUID, limit, offset int) ([]schemas.Post, error)
	CountByAuthor(ctx context.Context, authorId uuid.UUID) (int, error)
	Update(ctx context.Context, id uuid.UUID, title, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ToggleLike(ctx context.Context, id, userId uuid.UUID) (*schemas.LikeState, error)
	AppendComment(ctx context.Context, id uuid.UUID, comment schemas.Comment) error
}

// PostgresPostRepository implements PostRepository on top of a pool or a transaction.
type PostgresPostRepository struct {
	db interfaces.DBTX
}

// NewPostRepository returns a PostRepository bound to the provided DBTX.
func NewPostRepository(db interfaces.DBTX) PostRepository {
	return &PostgresPostRepository{db: db}
}

// $1 is always the viewer, NULL when anonymous.
const postSummaryColumns = `p.post_id, p.title, p.content, p.author_id, u.name, cardinality(p.likes),
		COALESCE($1::uuid = ANY(p.likes), false), p.created_at, p.updated_at`

const feedOrder = `ORDER BY p.created_at DESC, p.post_id DESC`

func (r *PostgresPostRepository) Create(ctx context.Context, post *schemas.Post) error {
	query := `INSERT INTO posts (post_id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownAuthor
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

func (r *PostgresPostRepository) Get(ctx context.Context, id uuid.UUID, viewerId *uuid.UUID) (*schemas.Post, error) {
	query := `SELECT ` + postSummaryColumns + `, p.comments
		FROM posts p JOIN users u ON u.user_id = p.author_id
		WHERE p.post_id = $2`

	post := &schemas.Post{}
	var comments []byte
	err := r.db.QueryRow(ctx, query, viewerId, id).Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID,
		&post.AuthorName, &post.Likes, &post.IsLiked, &post.CreatedAt, &post.UpdatedAt, &comments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	post.Comments = []schemas.Comment{}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &post.Comments); err != nil {
			return nil, fmt.Errorf("decode comments: %w", err)
		}
	}

	return post, nil
}

func (r *PostgresPostRepository) List(ctx context.Context, viewerId *uuid.UUID, limit, offset int) ([]schemas.Post, error) {
	query := `SELECT ` + postSummaryColumns + `
		FROM posts p JOIN users u ON u.user_id = p.author_id
		` + feedOrder + ` LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, viewerId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return scanPostSummaries(rows)
}

func (r *PostgresPostRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorId uuid.UUID, viewerId *uuid.UUID, limit, offset int) ([]schemas.Post, error) {
	query := `SELECT ` + postSummaryColumns + `
		FROM posts p JOIN users u ON u.user_id = p.author_id
		WHERE p.author_id = $4
		` + feedOrder + ` LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, viewerId, limit, offset, authorId)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return scanPostSummaries(rows)
}

func (r *PostgresPostRepository) CountByAuthor(ctx context.Context, authorId uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE author_id = $1`, authorId).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return count, nil
}

// Update changes title and content only; author and engagement stay untouched.
func (r *PostgresPostRepository) Update(ctx context.Context, id uuid.UUID, title, content string, updatedAt time.Time) error {
	query := `UPDATE posts SET title = $2, content = $3, updated_at = $4 WHERE post_id = $1`

	tag, err := r.db.Exec(ctx, query, id, title, content, updatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post and returns its author.
func (r *PostgresPostRepository) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var authorId uuid.UUID
	err := r.db.QueryRow(ctx, `DELETE FROM posts WHERE post_id = $1 RETURNING author_id`, id).Scan(&authorId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("delete post: %w", err)
	}
	return authorId, nil
}

// ToggleLike removes the user from the like-set if present and adds it otherwise.
func (r *PostgresPostRepository) ToggleLike(ctx context.Context, id, userId uuid.UUID) (*schemas.LikeState, error) {
	query := `UPDATE posts SET likes = CASE
			WHEN $2::uuid = ANY(likes) THEN array_remove(likes, $2::uuid)
			ELSE array_append(likes, $2::uuid)
		END
		WHERE post_id = $1
		RETURNING cardinality(likes), $2::uuid = ANY(likes)`

	state := &schemas.LikeState{}
	if err := r.db.QueryRow(ctx, query, id, userId).Scan(&state.Likes, &state.IsLiked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return state, nil
}

func (r *PostgresPostRepository) AppendComment(ctx context.Context, id uuid.UUID, comment schemas.Comment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	query := `UPDATE posts SET comments = comments || jsonb_build_array($2::jsonb) WHERE post_id = $1`
	tag, err := r.db.Exec(ctx, query, id, string(payload))
	if err != nil {
		return fmt.Errorf("append comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPostSummaries(rows pgx.Rows) ([]schemas.Post, error) {
	defer rows.Close()

	posts := make([]schemas.Post, 0)
	for rows.Next() {
		var post schemas.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.AuthorName,
			&post.Likes, &post.IsLiked, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}
