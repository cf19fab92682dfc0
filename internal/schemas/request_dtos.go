// Package schemas defines the request structures for various operations in the application.
package schemas

// SignupRequest is a struct that represents a signup request
// Name is required and must be less than 50 characters
// Email is required and must be a valid email
// Password is required, must be at least 8 characters and at most 72 bytes
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=50,content_validation" sanitize:"strict"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,password_length"`
}

// LoginRequest is a struct that represents a login request, also used for logout
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest is a struct that represents a resend verification request
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PostRequest is a struct that represents a create or update post request
// Title is required and must be less than 200 characters
// Content is required, written in UTF-8 and may contain basic markup
type PostRequest struct {
	Title   string `json:"title" validate:"required,max=200,content_validation" sanitize:"strict"`
	Content string `json:"content" validate:"required,max=20000,content_validation" sanitize:"ugc"`
}

// CreateCommentRequest is a struct that represents a create comment request
// Content is required and must be less than 1000 characters, as well as written in UTF-8
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000,content_validation" sanitize:"strict"`
}
