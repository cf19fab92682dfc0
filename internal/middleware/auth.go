package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blog-server/internal/managers"
	"blog-server/internal/repositories"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token to a stored user and puts it under UserKey.
// Every failure is answered with 401 and a code telling the client what went wrong.
func Authenticate(jwtMgr managers.JWTMgr, databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.WriteAndLogError(c, schemas.NoToken, http.StatusUnauthorized, nil)
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			utils.WriteAndLogError(c, schemas.InvalidTokenFormat, http.StatusUnauthorized, nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			utils.WriteAndLogError(c, schemas.NoToken, http.StatusUnauthorized, nil)
			return
		}

		userId, err := jwtMgr.ValidateJWT(token)
		if err != nil {
			if errors.Is(err, managers.ErrTokenExpired) {
				utils.WriteAndLogError(c, schemas.TokenExpired, http.StatusUnauthorized, err)
				return
			}
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}

		user, err := repositories.NewUserRepository(databaseMgr.GetPool()).FindByID(c.Request.Context(), userId)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.WriteAndLogError(c, schemas.TokenUserNotFound, http.StatusUnauthorized, err)
				return
			}
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		c.Set(utils.UserKey.String(), user)
		c.Next()
	}
}

// Authorize lets the request through only when the authenticated user has the given role.
// It must be mounted after Authenticate.
func Authorize(role schemas.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.WriteAndLogError(c, schemas.NoToken, http.StatusUnauthorized, errors.New("no authenticated user in context"))
			return
		}
		if user.Role != role {
			utils.WriteAndLogError(c, schemas.AdminRequired, http.StatusForbidden, nil)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c *gin.Context) (*schemas.User, bool) {
	value, exists := c.Get(utils.UserKey.String())
	if !exists {
		return nil, false
	}
	user, ok := value.(*schemas.User)
	return user, ok && user != nil
}
