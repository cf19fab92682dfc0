package schemas

// CustomError is the error payload returned to clients.
// Message is human readable, Code is stable and machine readable.
type CustomError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

var (
	BadRequest = &CustomError{
		Message: "The request body or parameters are invalid. Please check and try again.",
		Code:    "ERR-001",
	}
	EmailTaken = &CustomError{
		Message: "The email address is already registered. Please log in instead.",
		Code:    "ERR-002",
	}
	EmailUnreachable = &CustomError{
		Message: "The email address is invalid or cannot receive mail. Please use another one.",
		Code:    "ERR-003",
	}
	UserNotFound = &CustomError{
		Message: "The user was not found.",
		Code:    "ERR-004",
	}
	VerificationTokenNotFound = &CustomError{
		Message: "The verification token was not found or has already been used.",
		Code:    "ERR-005",
	}
	VerificationTokenExpired = &CustomError{
		Message: "The verification token has expired. Please request a new one.",
		Code:    "ERR-006",
	}
	AlreadyVerified = &CustomError{
		Message: "The email address is already verified.",
		Code:    "ERR-007",
	}
	InvalidCredentials = &CustomError{
		Message: "The email or password is incorrect.",
		Code:    "ERR-008",
	}
	UserNotVerified = &CustomError{
		Message: "The email address has not been verified yet. Please check your inbox.",
		Code:    "ERR-009",
	}
	NoToken = &CustomError{
		Message: "No authentication token was provided.",
		Code:    "ERR-010",
	}
	InvalidTokenFormat = &CustomError{
		Message: "The authorization header must have the format 'Bearer <token>'.",
		Code:    "ERR-011",
	}
	InvalidToken = &CustomError{
		Message: "The authentication token is invalid.",
		Code:    "ERR-012",
	}
	TokenExpired = &CustomError{
		Message: "The authentication token has expired. Please log in again.",
		Code:    "ERR-013",
	}
	TokenUserNotFound = &CustomError{
		Message: "The user of the authentication token no longer exists.",
		Code:    "ERR-014",
	}
	AdminRequired = &CustomError{
		Message: "Admin privileges are required for this action.",
		Code:    "ERR-015",
	}
	PostNotFound = &CustomError{
		Message: "The post was not found.",
		Code:    "ERR-016",
	}
	EmailVerificationFailed = &CustomError{
		Message: "The email address could not be checked. Please try again later.",
		Code:    "ERR-017",
	}
	EmailNotSent = &CustomError{
		Message: "The verification email could not be sent. Please request a new one.",
		Code:    "ERR-018",
	}
	DatabaseError = &CustomError{
		Message: "A database error occurred. Please try again later.",
		Code:    "ERR-019",
	}
	InternalServerError = &CustomError{
		Message: "An internal server error occurred. Please try again later.",
		Code:    "ERR-020",
	}
	TooManyRequests = &CustomError{
		Message: "Too many requests. Please slow down.",
		Code:    "ERR-021",
	}
	RouteNotFound = &CustomError{
		Message: "The requested resource was not found.",
		Code:    "ERR-022",
	}
)
