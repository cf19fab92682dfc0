package handlers

import (
	"errors"
	"net/http"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

type errorMapping struct {
	target error
	custom *schemas.CustomError
	status int
}

var errorMappings = []errorMapping{
	{managers.ErrDuplicateEmail, schemas.EmailTaken, http.StatusBadRequest},
	{managers.ErrPasswordTooLong, schemas.BadRequest, http.StatusBadRequest},
	{managers.ErrEmailUndeliverable, schemas.EmailUnreachable, http.StatusBadRequest},
	{managers.ErrEmailVerificationFailed, schemas.EmailVerificationFailed, http.StatusInternalServerError},
	{managers.ErrMailNotSent, schemas.EmailNotSent, http.StatusInternalServerError},
	{managers.ErrUserNotFound, schemas.UserNotFound, http.StatusNotFound},
	{managers.ErrVerificationTokenNotFound, schemas.VerificationTokenNotFound, http.StatusNotFound},
	{managers.ErrVerificationTokenExpired, schemas.VerificationTokenExpired, http.StatusNotFound},
	{managers.ErrAlreadyVerified, schemas.AlreadyVerified, http.StatusBadRequest},
	{managers.ErrInvalidCredentials, schemas.InvalidCredentials, http.StatusUnauthorized},
	{managers.ErrUserNotVerified, schemas.UserNotVerified, http.StatusUnauthorized},
	{managers.ErrPostNotFound, schemas.PostNotFound, http.StatusNotFound},
}

// classifyError translates a manager error into the error returned to the client.
func classifyError(err error) (*schemas.CustomError, int) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.custom, mapping.status
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || pgconn.Timeout(err) {
		return schemas.DatabaseError, http.StatusInternalServerError
	}
	return schemas.InternalServerError, http.StatusInternalServerError
}

func writeManagerError(c *gin.Context, err error) {
	customErr, status := classifyError(err)
	utils.WriteAndLogError(c, customErr, status, err)
}
