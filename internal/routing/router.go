package routing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"blog-server/internal/config"
	"blog-server/internal/handlers"
	"blog-server/internal/managers"
	"blog-server/internal/middleware"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	apiName       = "Blog Server"
	healthTimeout = 2 * time.Second
)

// InitRouter builds the gin engine with all middleware and routes.
// ctx bounds background work started for the router, such as the rate limiter cleanup.
func InitRouter(ctx context.Context, cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, emailVerifier managers.EmailVerifier) *gin.Engine {
	router := gin.New()
	setupCommonMiddleware(router, cfg)
	setupRoutes(ctx, router, cfg, databaseMgr, mailMgr, jwtMgr, emailVerifier)

	return router
}

func setupCommonMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(ctx context.Context, router *gin.Engine, cfg *config.Config, databaseMgr managers.DatabaseMgr,
	mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, emailVerifier managers.EmailVerifier) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: cfg.APIVersion,
			ApiName:    apiName,
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := databaseMgr.GetPool().Ping(pingCtx); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusServiceUnavailable, err)
			return
		}
		utils.WriteAndLogResponse(c, &schemas.HealthDTO{Status: "ok"}, http.StatusOK)
	})

	verificationMgr := managers.NewVerificationManager(cfg, databaseMgr, mailMgr, emailVerifier)
	postMgr := managers.NewPostManager(databaseMgr)
	rateLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, cfg.AuthRateBurst)

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		userHdl := handlers.NewUserHandler(verificationMgr, jwtMgr)
		userRoutes(apiRouter, userHdl, rateLimiter)

		postRouter := apiRouter.Group("/posts")
		postRouter.Use(middleware.Authenticate(jwtMgr, databaseMgr))
		postHdl := handlers.NewPostHandler(postMgr)
		postRoutes(postRouter, postHdl)
	}

	router.NoRoute(staticHandler(cfg.StaticDir))
}

func userRoutes(apiRouter *gin.RouterGroup, userHdl handlers.UserHdl, rateLimiter *middleware.RateLimiter) {
	apiRouter.GET("/verify-email", userHdl.VerifyEmail)

	// Credential routes are rate limited per client IP
	limited := apiRouter.Group("", rateLimiter.Limit())
	limited.POST("/signup", middleware.ValidateAndSanitizeStruct(&schemas.SignupRequest{}), userHdl.Signup)
	limited.POST("/resend-verification", middleware.ValidateAndSanitizeStruct(&schemas.ResendVerificationRequest{}), userHdl.ResendVerification)
	limited.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.Login)
	limited.POST("/logout", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.Logout)
}

func postRoutes(postRouter *gin.RouterGroup, postHdl handlers.PostHdl) {
	idPath := "/:" + utils.PostIdKey

	postRouter.GET("", postHdl.ListPosts)
	postRouter.GET("/user", postHdl.ListUserPosts)
	postRouter.GET(idPath, postHdl.GetPost)
	postRouter.POST(idPath+"/like", postHdl.ToggleLike)
	postRouter.POST(idPath+"/comments", middleware.ValidateAndSanitizeStruct(&schemas.CreateCommentRequest{}), postHdl.CreateComment)

	// The following routes require admin privileges
	adminOnly := middleware.Authorize(schemas.RoleAdmin)
	postRouter.POST("", adminOnly, middleware.ValidateAndSanitizeStruct(&schemas.PostRequest{}), postHdl.CreatePost)
	postRouter.PUT(idPath, adminOnly, middleware.ValidateAndSanitizeStruct(&schemas.PostRequest{}), postHdl.UpdatePost)
	postRouter.DELETE(idPath, adminOnly, postHdl.DeletePost)
}

// staticHandler serves the single page frontend from dir for unknown non-API paths,
// falling back to index.html so client side routes resolve. Without dir every unknown path is a 404.
func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := c.Request.URL.Path
		if dir == "" || c.Request.Method != http.MethodGet || requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			utils.WriteAndLogError(c, schemas.RouteNotFound, http.StatusNotFound, nil)
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+requestPath)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			utils.LogMessageWithFields(c, "warn", "Static file lookup failed: "+err.Error())
		}

		c.File(filepath.Join(dir, "index.html"))
	}
}
