package managers

import "errors"

var (
	ErrDuplicateEmail            = errors.New("email already registered")
	ErrPasswordTooLong           = errors.New("password exceeds 72 bytes")
	ErrEmailUndeliverable        = errors.New("email address is undeliverable")
	ErrEmailVerificationFailed   = errors.New("email deliverability check failed")
	ErrMailNotSent               = errors.New("verification mail not sent")
	ErrUserNotFound              = errors.New("user not found")
	ErrVerificationTokenNotFound = errors.New("verification token not found")
	ErrVerificationTokenExpired  = errors.New("verification token expired")
	ErrAlreadyVerified           = errors.New("email already verified")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserNotVerified           = errors.New("email not verified")
	ErrPostNotFound              = errors.New("post not found")
	ErrTokenExpired              = errors.New("token expired")
	ErrTokenInvalid              = errors.New("token invalid")
)
