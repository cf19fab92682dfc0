package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MessageDTO is a struct that represents a plain message response
type MessageDTO struct {
	Message string `json:"message"`
}

// UserDTO is a struct that represents a user summary response
// UserId is the ID of the user
// Name is the display name of the user
// Email is the email of the user
// Role is either "user" or "admin"
// IsVerified tells whether the email address has been confirmed
type UserDTO struct {
	UserId     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// UserMessageDTO is a struct that represents a message about a user, used by signup and verification
type UserMessageDTO struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginDTO is a struct that represents a login response
// Token is the session JWT used for auth
type LoginDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// AuthorDTO is a struct that represents an author response
type AuthorDTO struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
}

// CommentDTO is a struct that represents a comment response
type CommentDTO struct {
	CommentId    string    `json:"commentId"`
	Content      string    `json:"content"`
	Author       AuthorDTO `json:"author"`
	CreationDate string    `json:"creationDate"`
}

// PostDTO is a struct that represents a post response
// Likes is the size of the like-set, IsLiked is relative to the caller
// Comments is only filled for single post responses
type PostDTO struct {
	PostId       string       `json:"postId"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Author       AuthorDTO    `json:"author"`
	Likes        int          `json:"likes"`
	IsLiked      bool         `json:"isLiked"`
	Comments     []CommentDTO `json:"comments,omitempty"`
	CreationDate string       `json:"creationDate"`
	UpdateDate   string       `json:"updateDate"`
}

// PostPageDTO is a struct that represents a paginated post response
type PostPageDTO struct {
	Posts       []PostDTO `json:"posts"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	HasMore     bool      `json:"hasMore"`
}

// LikeDTO is a struct that represents a like toggle response
type LikeDTO struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

type HealthDTO struct {
	Status string `json:"status"`
}
