// Package handlers implements the handlers for the different routes of the server to handle the incoming HTTP requests.
package handlers

import (
	"net/http"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHdl defines the interface for handling signup, verification and session requests.
type UserHdl interface {
	Signup(c *gin.Context)
	VerifyEmail(c *gin.Context)
	ResendVerification(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

// UserHandler provides methods to handle user-related HTTP requests.
type UserHandler struct {
	VerificationManager managers.VerificationMgr
	JWTManager          managers.JWTMgr
}

// NewUserHandler returns a new UserHandler with the provided managers.
func NewUserHandler(verificationMgr managers.VerificationMgr, jwtMgr managers.JWTMgr) UserHdl {
	return &UserHandler{
		VerificationManager: verificationMgr,
		JWTManager:          jwtMgr,
	}
}

// Signup creates an unverified user and sends the verification mail.
func (handler *UserHandler) Signup(c *gin.Context) {
	signupRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.SignupRequest)

	user, err := handler.VerificationManager.Register(c.Request.Context(), signupRequest.Name, signupRequest.Email,
		signupRequest.Password)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	response := &schemas.UserMessageDTO{
		Message: "Signup successful. Please check your inbox to verify your email address.",
		User:    toUserDTO(user),
	}
	utils.WriteAndLogResponse(c, response, http.StatusCreated)
}

// VerifyEmail consumes the token given in the query string.
func (handler *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query(utils.TokenParamKey)
	if token == "" {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, nil)
		return
	}

	user, err := handler.VerificationManager.Verify(c.Request.Context(), token)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	response := &schemas.UserMessageDTO{
		Message: "Email address verified successfully.",
		User:    toUserDTO(user),
	}
	utils.WriteAndLogResponse(c, response, http.StatusOK)
}

// ResendVerification replaces the pending verification token and mails the new one.
func (handler *UserHandler) ResendVerification(c *gin.Context) {
	resendRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.ResendVerificationRequest)

	if err := handler.VerificationManager.Resend(c.Request.Context(), resendRequest.Email); err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "A new verification email has been sent."}, http.StatusOK)
}

// Login checks the credentials of a verified user and issues a session token.
func (handler *UserHandler) Login(c *gin.Context) {
	loginRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := handler.VerificationManager.Login(c.Request.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.ID)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.LoginDTO{Token: token, User: toUserDTO(user)}, http.StatusOK)
}

// Logout only re-checks the credentials. Sessions are stateless, issued tokens stay valid until they expire.
func (handler *UserHandler) Logout(c *gin.Context) {
	logoutRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	if _, err := handler.VerificationManager.Authenticate(c.Request.Context(), logoutRequest.Email, logoutRequest.Password); err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Logged out successfully."}, http.StatusOK)
}
