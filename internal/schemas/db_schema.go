// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents the data model for a user in the system.
type User struct {
	ID                    uuid.UUID   // Unique identifier for the user.
	Email                 string      // Email address, unique as stored.
	Name                  string      // Display name of the user.
	Password              string      // Password hash of the user.
	Role                  Role        // Authorization level.
	IsVerified            bool        // Whether the email address has been confirmed.
	VerificationToken     *string     // Pending single-use verification token.
	VerificationExpiresAt *time.Time  // Absolute expiry of VerificationToken.
	PostIDs               []uuid.UUID // Advisory index of the posts the user authored.
	CreatedAt             time.Time   // Timestamp when the user was created.
}

// Post represents a blog post together with its engagement.
type Post struct {
	ID         uuid.UUID
	Title      string
	Content    string
	AuthorID   uuid.UUID
	AuthorName string
	Likes      int  // Number of users in the like-set.
	IsLiked    bool // Whether the viewer is in the like-set.
	Comments   []Comment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is embedded in a post. Author is a snapshot taken at write time.
type Comment struct {
	ID        uuid.UUID     `json:"commentId"`
	Content   string        `json:"content"`
	Author    CommentAuthor `json:"author"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CommentAuthor is the denormalized identity of a commenting user.
type CommentAuthor struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
}

// LikeState is the result of toggling a like.
type LikeState struct {
	Likes   int
	IsLiked bool
}
