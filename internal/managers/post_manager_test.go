package managers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"blog-server/internal/managers"
	"blog-server/internal/managers/mocks"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postSummaryColumns = []string{"post_id", "title", "content", "author_id", "name", "likes", "is_liked",
	"created_at", "updated_at"}

func setupPosts(t *testing.T) (pgxmock.PgxPoolIface, *managers.PostManager, time.Time) {
	t.Helper()
	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)

	databaseMgr := &mocks.MockDatabaseManager{}
	databaseMgr.On("GetPool").Return(poolMock)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	postMgr := managers.NewPostManager(databaseMgr)
	managers.SetPostClock(postMgr, func() time.Time { return now })

	t.Cleanup(func() {
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
	return poolMock, postMgr, now
}

func TestCreatePost(t *testing.T) {
	poolMock, postMgr, now := setupPosts(t)
	author := storedUser(t, "whatever1", true, nil, nil)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("FROM users WHERE user_id = \\$1").WithArgs(author.ID).WillReturnRows(userRows(author))
	poolMock.ExpectExec("INSERT INTO posts").
		WithArgs(pgxmock.AnyArg(), author.ID, "Title", "Body", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	poolMock.ExpectExec("array_append\\(post_ids").
		WithArgs(author.ID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	poolMock.ExpectCommit()

	post, err := postMgr.CreatePost(context.Background(), author.ID, "Title", "Body")
	require.NoError(t, err)
	assert.Equal(t, "Alice", post.AuthorName)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, 0, post.Likes)
	assert.False(t, post.IsLiked)
	assert.Empty(t, post.Comments)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("FROM users WHERE user_id").WillReturnError(pgx.ErrNoRows)
	poolMock.ExpectRollback()

	_, err := postMgr.CreatePost(context.Background(), uuid.New(), "Title", "Body")
	assert.ErrorIs(t, err, managers.ErrUserNotFound)
}

func TestListPostsPagination(t *testing.T) {
	testCases := []struct {
		name       string
		page       int
		limit      int
		returned   int
		total      int
		totalPages int
		hasMore    bool
	}{
		{"FirstPage", 1, 2, 2, 5, 3, true},
		{"MiddlePage", 2, 2, 2, 5, 3, true},
		{"LastPage", 3, 2, 1, 5, 3, false},
		{"PastTheEnd", 4, 2, 0, 5, 3, false},
		{"EmptyFeed", 1, 10, 0, 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			poolMock, postMgr, now := setupPosts(t)
			authorId := uuid.New()

			rows := pgxmock.NewRows(postSummaryColumns)
			for i := 0; i < tc.returned; i++ {
				created := now.Add(-time.Duration((tc.page-1)*tc.limit+i) * time.Minute)
				rows.AddRow(uuid.New(), "T", "C", authorId, "Alice", 0, false, created, created)
			}

			poolMock.ExpectBeginTx(utils.SnapshotOptions)
			poolMock.ExpectQuery("SELECT count\\(\\*\\) FROM posts").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tc.total))
			poolMock.ExpectQuery("ORDER BY p.created_at DESC").
				WithArgs(pgxmock.AnyArg(), tc.limit, (tc.page-1)*tc.limit).
				WillReturnRows(rows)
			poolMock.ExpectCommit()

			page, err := postMgr.ListPosts(context.Background(), tc.page, tc.limit, nil)
			require.NoError(t, err)

			assert.Len(t, page.Posts, tc.returned)
			assert.Equal(t, tc.page, page.CurrentPage)
			assert.Equal(t, tc.totalPages, page.TotalPages)
			assert.Equal(t, tc.hasMore, page.HasMore)
			assert.Equal(t, (tc.page-1)*tc.limit+len(page.Posts) < tc.total, page.HasMore)
			for i := 1; i < len(page.Posts); i++ {
				assert.False(t, page.Posts[i].CreatedAt.After(page.Posts[i-1].CreatedAt))
			}
		})
	}
}

func TestListPostsByAuthor(t *testing.T) {
	poolMock, postMgr, now := setupPosts(t)
	authorId := uuid.New()

	poolMock.ExpectBeginTx(utils.SnapshotOptions)
	poolMock.ExpectQuery("SELECT count\\(\\*\\) FROM posts WHERE author_id = \\$1").
		WithArgs(authorId).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	poolMock.ExpectQuery("WHERE p.author_id = \\$4").
		WithArgs(&authorId, 10, 0, authorId).
		WillReturnRows(pgxmock.NewRows(postSummaryColumns).AddRow(uuid.New(), "Mine", "C", authorId, "Alice", 1, true, now, now))
	poolMock.ExpectCommit()

	page, err := postMgr.ListPostsByAuthor(context.Background(), authorId, 1, 10, &authorId)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.True(t, page.Posts[0].IsLiked)
	assert.False(t, page.HasMore)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListPostsReadsOneSnapshot(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	poolMock.ExpectQuery("SELECT count\\(\\*\\) FROM posts").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	poolMock.ExpectQuery("ORDER BY p.created_at DESC").WillReturnError(errors.New("connection reset"))
	poolMock.ExpectRollback()

	_, err := postMgr.ListPosts(context.Background(), 1, 10, nil)
	assert.ErrorContains(t, err, "connection reset")
}

func TestListPostsPageBeyondAnyOffset(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)
	page := utils.MaxPage

	poolMock.ExpectBeginTx(utils.SnapshotOptions)
	poolMock.ExpectQuery("SELECT count\\(\\*\\) FROM posts").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	poolMock.ExpectQuery("ORDER BY p.created_at DESC").
		WithArgs(pgxmock.AnyArg(), utils.MaxLimit, (page-1)*utils.MaxLimit).
		WillReturnRows(pgxmock.NewRows(postSummaryColumns))
	poolMock.ExpectCommit()

	result, err := postMgr.ListPosts(context.Background(), page, utils.MaxLimit, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Posts)
	assert.False(t, result.HasMore)
	assert.Equal(t, 1, result.TotalPages)
}

func TestGetPostNotFound(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectQuery("WHERE p.post_id = \\$2").WillReturnError(pgx.ErrNoRows)

	_, err := postMgr.GetPost(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, managers.ErrPostNotFound)
}

func TestUpdatePostKeepsEngagement(t *testing.T) {
	poolMock, postMgr, now := setupPosts(t)
	id, authorId, viewer := uuid.New(), uuid.New(), uuid.New()
	created := now.Add(-time.Hour)
	comments, err := json.Marshal([]schemas.Comment{{ID: uuid.New(), Content: "Hi", Author: schemas.CommentAuthor{UserID: viewer, Name: "Bob"}, CreatedAt: created}})
	require.NoError(t, err)

	poolMock.ExpectBegin()
	poolMock.ExpectExec("UPDATE posts SET title = \\$2").WithArgs(id, "New", "Text", now).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	poolMock.ExpectQuery("WHERE p.post_id = \\$2").
		WithArgs(&viewer, id).
		WillReturnRows(pgxmock.NewRows(append(postSummaryColumns, "comments")).
			AddRow(id, "New", "Text", authorId, "Alice", 4, true, created, now, comments))
	poolMock.ExpectCommit()

	post, err := postMgr.UpdatePost(context.Background(), id, "New", "Text", &viewer)
	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, authorId, post.AuthorID)
	assert.Equal(t, 4, post.Likes)
	assert.Len(t, post.Comments, 1)
	assert.Equal(t, created, post.CreatedAt)
	assert.Equal(t, now, post.UpdatedAt)
}

func TestUpdatePostNotFound(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectBegin()
	poolMock.ExpectExec("UPDATE posts SET title").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	poolMock.ExpectRollback()

	_, err := postMgr.UpdatePost(context.Background(), uuid.New(), "New", "Text", nil)
	assert.ErrorIs(t, err, managers.ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)
	id, authorId := uuid.New(), uuid.New()

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("DELETE FROM posts").WithArgs(id).WillReturnRows(pgxmock.NewRows([]string{"author_id"}).AddRow(authorId))
	poolMock.ExpectExec("array_remove\\(post_ids").WithArgs(authorId, id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	poolMock.ExpectCommit()

	require.NoError(t, postMgr.DeletePost(context.Background(), id))
}

func TestDeletePostToleratesMissingAuthorIndex(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)
	id := uuid.New()

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("DELETE FROM posts").WillReturnRows(pgxmock.NewRows([]string{"author_id"}).AddRow(uuid.New()))
	poolMock.ExpectExec("array_remove\\(post_ids").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	poolMock.ExpectCommit()

	require.NoError(t, postMgr.DeletePost(context.Background(), id))
}

func TestDeletePostNotFound(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("DELETE FROM posts").WillReturnError(pgx.ErrNoRows)
	poolMock.ExpectRollback()

	assert.ErrorIs(t, postMgr.DeletePost(context.Background(), uuid.New()), managers.ErrPostNotFound)
}

func TestDeletePostRollsBackWhenIndexUpdateFails(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("DELETE FROM posts").WillReturnRows(pgxmock.NewRows([]string{"author_id"}).AddRow(uuid.New()))
	poolMock.ExpectExec("array_remove\\(post_ids").WillReturnError(errors.New("deadlock"))
	poolMock.ExpectRollback()

	err := postMgr.DeletePost(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "deadlock")
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)
	id, userId := uuid.New(), uuid.New()

	poolMock.ExpectQuery("UPDATE posts SET likes").WithArgs(id, userId).
		WillReturnRows(pgxmock.NewRows([]string{"cardinality", "is_liked"}).AddRow(3, true))
	poolMock.ExpectQuery("UPDATE posts SET likes").WithArgs(id, userId).
		WillReturnRows(pgxmock.NewRows([]string{"cardinality", "is_liked"}).AddRow(2, false))

	first, err := postMgr.ToggleLike(context.Background(), id, userId)
	require.NoError(t, err)
	second, err := postMgr.ToggleLike(context.Background(), id, userId)
	require.NoError(t, err)

	assert.Equal(t, &schemas.LikeState{Likes: 3, IsLiked: true}, first)
	assert.Equal(t, &schemas.LikeState{Likes: 2, IsLiked: false}, second)
}

func TestToggleLikeNotFound(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)

	poolMock.ExpectQuery("UPDATE posts SET likes").WillReturnError(pgx.ErrNoRows)

	_, err := postMgr.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, managers.ErrPostNotFound)
}

func TestAddCommentSnapshotsAuthorName(t *testing.T) {
	poolMock, postMgr, now := setupPosts(t)
	author := storedUser(t, "whatever1", true, nil, nil)
	postId := uuid.New()

	poolMock.ExpectQuery("FROM users WHERE user_id").WithArgs(author.ID).WillReturnRows(userRows(author))
	poolMock.ExpectExec("jsonb_build_array").WithArgs(postId, pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	comment, err := postMgr.AddComment(context.Background(), postId, author.ID, "Nice post")
	require.NoError(t, err)
	assert.Equal(t, "Nice post", comment.Content)
	assert.Equal(t, schemas.CommentAuthor{UserID: author.ID, Name: "Alice"}, comment.Author)
	assert.Equal(t, now, comment.CreatedAt)
}

func TestAddCommentPostNotFound(t *testing.T) {
	poolMock, postMgr, _ := setupPosts(t)
	author := storedUser(t, "whatever1", true, nil, nil)

	poolMock.ExpectQuery("FROM users WHERE user_id").WillReturnRows(userRows(author))
	poolMock.ExpectExec("jsonb_build_array").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := postMgr.AddComment(context.Background(), uuid.New(), author.ID, "Nice post")
	assert.ErrorIs(t, err, managers.ErrPostNotFound)
}
