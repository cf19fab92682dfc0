package handlers

import (
	"time"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
)

func toUserDTO(user *schemas.User) schemas.UserDTO {
	return schemas.UserDTO{
		UserId:     user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
	}
}

func toCommentDTO(comment schemas.Comment) schemas.CommentDTO {
	return schemas.CommentDTO{
		CommentId: comment.ID.String(),
		Content:   comment.Content,
		Author: schemas.AuthorDTO{
			UserId: comment.Author.UserID.String(),
			Name:   comment.Author.Name,
		},
		CreationDate: comment.CreatedAt.Format(time.RFC3339),
	}
}

func toPostDTO(post *schemas.Post) schemas.PostDTO {
	dto := schemas.PostDTO{
		PostId:  post.ID.String(),
		Title:   post.Title,
		Content: post.Content,
		Author: schemas.AuthorDTO{
			UserId: post.AuthorID.String(),
			Name:   post.AuthorName,
		},
		Likes:        post.Likes,
		IsLiked:      post.IsLiked,
		CreationDate: post.CreatedAt.Format(time.RFC3339),
		UpdateDate:   post.UpdatedAt.Format(time.RFC3339),
	}

	for _, comment := range post.Comments {
		dto.Comments = append(dto.Comments, toCommentDTO(comment))
	}
	return dto
}

func toPostPageDTO(page *managers.PostPage) *schemas.PostPageDTO {
	dto := &schemas.PostPageDTO{
		Posts:       make([]schemas.PostDTO, 0, len(page.Posts)),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		HasMore:     page.HasMore,
	}
	for i := range page.Posts {
		dto.Posts = append(dto.Posts, toPostDTO(&page.Posts[i]))
	}
	return dto
}
