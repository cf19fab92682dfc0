package handlers

import (
	"net/http"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostHdl defines the interface for handling post-related HTTP requests.
type PostHdl interface {
	CreatePost(c *gin.Context)
	ListPosts(c *gin.Context)
	ListUserPosts(c *gin.Context)
	GetPost(c *gin.Context)
	UpdatePost(c *gin.Context)
	DeletePost(c *gin.Context)
	ToggleLike(c *gin.Context)
	CreateComment(c *gin.Context)
}

// PostHandler provides methods to handle post-related HTTP requests.
// Every route is mounted behind the authentication middleware.
type PostHandler struct {
	PostManager managers.PostMgr
}

// NewPostHandler returns a new PostHandler with the provided manager.
func NewPostHandler(postMgr managers.PostMgr) PostHdl {
	return &PostHandler{PostManager: postMgr}
}

func currentUser(c *gin.Context) *schemas.User {
	return c.Value(utils.UserKey.String()).(*schemas.User)
}

// postIdParam parses the post id path parameter, answering 400 when it is not a UUID.
func postIdParam(c *gin.Context) (uuid.UUID, bool) {
	postId, err := uuid.Parse(c.Param(utils.PostIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return postId, true
}

// CreatePost stores a new post authored by the caller.
func (handler *PostHandler) CreatePost(c *gin.Context) {
	postRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.PostRequest)
	user := currentUser(c)

	post, err := handler.PostManager.CreatePost(c.Request.Context(), user.ID, postRequest.Title, postRequest.Content)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toPostDTO(post), http.StatusCreated)
}

// ListPosts returns one page of the global feed.
func (handler *PostHandler) ListPosts(c *gin.Context) {
	page, limit := utils.ParsePaginationParams(c)
	user := currentUser(c)

	postPage, err := handler.PostManager.ListPosts(c.Request.Context(), page, limit, &user.ID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toPostPageDTO(postPage), http.StatusOK)
}

// ListUserPosts returns one page of the caller's own posts.
func (handler *PostHandler) ListUserPosts(c *gin.Context) {
	page, limit := utils.ParsePaginationParams(c)
	user := currentUser(c)

	postPage, err := handler.PostManager.ListPostsByAuthor(c.Request.Context(), user.ID, page, limit, &user.ID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toPostPageDTO(postPage), http.StatusOK)
}

func (handler *PostHandler) GetPost(c *gin.Context) {
	postId, ok := postIdParam(c)
	if !ok {
		return
	}
	user := currentUser(c)

	post, err := handler.PostManager.GetPost(c.Request.Context(), postId, &user.ID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toPostDTO(post), http.StatusOK)
}

// UpdatePost replaces title and content of a post.
func (handler *PostHandler) UpdatePost(c *gin.Context) {
	postId, ok := postIdParam(c)
	if !ok {
		return
	}
	postRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.PostRequest)
	user := currentUser(c)

	post, err := handler.PostManager.UpdatePost(c.Request.Context(), postId, postRequest.Title, postRequest.Content, &user.ID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toPostDTO(post), http.StatusOK)
}

func (handler *PostHandler) DeletePost(c *gin.Context) {
	postId, ok := postIdParam(c)
	if !ok {
		return
	}

	if err := handler.PostManager.DeletePost(c.Request.Context(), postId); err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Post deleted successfully."}, http.StatusOK)
}

// ToggleLike likes the post for the caller, or removes the like when already given.
func (handler *PostHandler) ToggleLike(c *gin.Context) {
	postId, ok := postIdParam(c)
	if !ok {
		return
	}
	user := currentUser(c)

	state, err := handler.PostManager.ToggleLike(c.Request.Context(), postId, user.ID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.LikeDTO{Likes: state.Likes, IsLiked: state.IsLiked}, http.StatusOK)
}

// CreateComment appends a comment by the caller to the post.
func (handler *PostHandler) CreateComment(c *gin.Context) {
	postId, ok := postIdParam(c)
	if !ok {
		return
	}
	commentRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateCommentRequest)
	user := currentUser(c)

	comment, err := handler.PostManager.AddComment(c.Request.Context(), postId, user.ID, commentRequest.Content)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, toCommentDTO(*comment), http.StatusCreated)
}
