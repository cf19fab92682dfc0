package managers

import (
	"context"
	"errors"
	"time"

	"blog-server/internal/repositories"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostPage is one page of a time ordered feed.
type PostPage struct {
	Posts       []schemas.Post
	CurrentPage int
	TotalPages  int
	HasMore     bool
}

// PostMgr is the post and engagement store.
type PostMgr interface {
	CreatePost(ctx context.Context, authorId uuid.UUID, title, content string) (*schemas.Post, error)
	ListPosts(ctx context.Context, page, limit int, viewerId *uuid.UUID) (*PostPage, error)
	ListPostsByAuthor(ctx context.Context, authorId uuid.UUID, page, limit int, viewerId *uuid.UUID) (*PostPage, error)
	GetPost(ctx context.Context, id uuid.UUID, viewerId *uuid.UUID) (*schemas.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, title, content string, viewerId *uuid.UUID) (*schemas.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, id, userId uuid.UUID) (*schemas.LikeState, error)
	AddComment(ctx context.Context, id, authorId uuid.UUID, content string) (*schemas.Comment, error)
}

// PostManager implements PostMgr on top of the post and user repositories.
type PostManager struct {
	DatabaseManager DatabaseMgr
	now             func() time.Time
}

// NewPostManager returns a new PostManager.
func NewPostManager(databaseMgr DatabaseMgr) *PostManager {
	return &PostManager{DatabaseManager: databaseMgr, now: time.Now}
}

func (pm *PostManager) timestamp() time.Time {
	return pm.now().UTC().Truncate(time.Microsecond)
}

// CreatePost stores the post and adds it to the author's post index in one transaction.
func (pm *PostManager) CreatePost(ctx context.Context, authorId uuid.UUID, title, content string) (*schemas.Post, error) {
	now := pm.timestamp()
	post := &schemas.Post{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		AuthorID:  authorId,
		Comments:  []schemas.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := utils.WithTransaction(ctx, pm.DatabaseManager.GetPool(), func(ctx context.Context, tx pgx.Tx) error {
		users := repositories.NewUserRepository(tx)
		author, err := users.FindByID(ctx, authorId)
		if err != nil {
			return err
		}
		post.AuthorName = author.Name

		if err := repositories.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		return users.AppendPost(ctx, authorId, post.ID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrUnknownAuthor) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return post, nil
}

// ListPosts returns the global feed, newest first.
func (pm *PostManager) ListPosts(ctx context.Context, page, limit int, viewerId *uuid.UUID) (*PostPage, error) {
	var total int
	var records []schemas.Post
	err := utils.WithSnapshot(ctx, pm.DatabaseManager.GetPool(), func(ctx context.Context, tx pgx.Tx) error {
		posts := repositories.NewPostRepository(tx)

		var err error
		if total, err = posts.Count(ctx); err != nil {
			return err
		}
		records, err = posts.List(ctx, viewerId, limit, utils.Offset(page, limit))
		return err
	})
	if err != nil {
		return nil, err
	}

	return newPostPage(records, page, limit, total), nil
}

// ListPostsByAuthor returns the posts of one author, newest first.
func (pm *PostManager) ListPostsByAuthor(ctx context.Context, authorId uuid.UUID, page, limit int, viewerId *uuid.UUID) (*PostPage, error) {
	var total int
	var records []schemas.Post
	err := utils.WithSnapshot(ctx, pm.DatabaseManager.GetPool(), func(ctx context.Context, tx pgx.Tx) error {
		posts := repositories.NewPostRepository(tx)

		var err error
		if total, err = posts.CountByAuthor(ctx, authorId); err != nil {
			return err
		}
		records, err = posts.ListByAuthor(ctx, authorId, viewerId, limit, utils.Offset(page, limit))
		return err
	})
	if err != nil {
		return nil, err
	}

	return newPostPage(records, page, limit, total), nil
}

func (pm *PostManager) GetPost(ctx context.Context, id uuid.UUID, viewerId *uuid.UUID) (*schemas.Post, error) {
	post, err := repositories.NewPostRepository(pm.DatabaseManager.GetPool()).Get(ctx, id, viewerId)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and content. Author, likes and comments are kept.
func (pm *PostManager) UpdatePost(ctx context.Context, id uuid.UUID, title, content string, viewerId *uuid.UUID) (*schemas.Post, error) {
	var post *schemas.Post
	err := utils.WithTransaction(ctx, pm.DatabaseManager.GetPool(), func(ctx context.Context, tx pgx.Tx) error {
		posts := repositories.NewPostRepository(tx)
		if err := posts.Update(ctx, id, title, content, pm.timestamp()); err != nil {
			return err
		}

		var err error
		post, err = posts.Get(ctx, id, viewerId)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// DeletePost removes the post and pulls it from the author's post index in one transaction.
func (pm *PostManager) DeletePost(ctx context.Context, id uuid.UUID) error {
	err := utils.WithTransaction(ctx, pm.DatabaseManager.GetPool(), func(ctx context.Context, tx pgx.Tx) error {
		authorId, err := repositories.NewPostRepository(tx).Delete(ctx, id)
		if err != nil {
			return err
		}

		// the post index is advisory, a missing author row is not an error
		err = repositories.NewUserRepository(tx).RemovePost(ctx, authorId, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

// ToggleLike adds the user to the like-set or removes them when already present.
// Applying it twice restores the previous state.
func (pm *PostManager) ToggleLike(ctx context.Context, id, userId uuid.UUID) (*schemas.LikeState, error) {
	state, err := repositories.NewPostRepository(pm.DatabaseManager.GetPool()).ToggleLike(ctx, id, userId)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return state, nil
}

// AddComment appends a comment carrying a snapshot of the author's current name.
func (pm *PostManager) AddComment(ctx context.Context, id, authorId uuid.UUID, content string) (*schemas.Comment, error) {
	pool := pm.DatabaseManager.GetPool()

	author, err := repositories.NewUserRepository(pool).FindByID(ctx, authorId)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := schemas.Comment{
		ID:        uuid.New(),
		Content:   content,
		Author:    schemas.CommentAuthor{UserID: author.ID, Name: author.Name},
		CreatedAt: pm.timestamp(),
	}

	if err := repositories.NewPostRepository(pool).AppendComment(ctx, id, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &comment, nil
}

func newPostPage(posts []schemas.Post, page, limit, total int) *PostPage {
	totalPages, hasMore := utils.PageInfo(page, limit, len(posts), total)
	return &PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasMore:     hasMore,
	}
}
