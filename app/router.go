// Package app wires every endpoint to its handler
package app

import (
	"fmt"
	"time"

	"quillbit/blog-api/app/admin"
	"quillbit/blog-api/app/auth"
	"quillbit/blog-api/app/blog"
	"quillbit/blog-api/app/comment"
	"quillbit/blog-api/app/like"
	"quillbit/blog-api/app/post"
	"quillbit/blog-api/app/profile"
	"quillbit/blog-api/app/recovery"
	"quillbit/blog-api/app/root"
	"quillbit/blog-api/app/tag"
	"quillbit/blog-api/config"
	"quillbit/blog-api/db"
	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/service"
	"quillbit/blog-api/pkg/middleware"
	"quillbit/blog-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Deps   *internal.Deps
}

func NewRouter() (*API, error) {
	a := &API{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	makeLogger()

	argon := security.NewArgon()
	issuer := security.NewIssuer(
		viper.GetString("jwt.secret"),
		viper.GetDuration("jwt.access_lifetime"),
		viper.GetDuration("jwt.refresh_lifetime"),
		viper.GetDuration("jwt.reset_lifetime"),
	)

	a.Deps = &internal.Deps{
		DB:       database,
		Argon:    argon,
		Tokens:   issuer,
		Sessions: service.NewSessions(service.NewRedisCache()),
		Gemini:   service.NewGemini(),
	}

	if err := service.SeedDefaults(database, argon, config.SeedAdmin()); err != nil {
		return nil, fmt.Errorf("failed to seed defaults, %w", err)
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
		middleware.NewXSSProtectionMiddleware(),
		middleware.NewSQLInjectionMiddleware(),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(database, issuer)
	admins := middleware.AdminOnly()
	limited := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("rate.requests_per_second"),
		Burst:             viper.GetInt("rate.burst"),
	})
	cacheFor := makeCache()
	d := a.Deps

	h := func(fn func(*gin.Context, *internal.Deps)) gin.HandlerFunc {
		return func(c *gin.Context) { fn(c, d) }
	}

	main := router.Group("/api", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/hello		-> Unauthenticated smoke test
		main.GET("/hello", root.Hello)

		// POST /api/signup		-> Registers a new account with security answers
		main.POST("/signup", h(auth.Signup))

		// POST /api/login		-> Logs in with username or email
		main.POST("/login", limited, h(auth.Login))

		// POST /api/refresh		-> Exchanges a refresh token for a new access token
		main.POST("/refresh", h(auth.Refresh))

		// POST /api/logout		-> Blacklists the refresh token
		main.POST("/logout", h(auth.Logout))

		// POST /api/google/login	-> Verifies a Google ID token and signs in
		main.POST("/google/login", h(auth.GoogleLogin))

		// POST /api/generate-blog	-> Expands a prompt into blog text
		main.POST("/generate-blog", jwt, h(blog.Generate))
	}

	forget := main.Group("/forget-password", limited)
	{
		// POST /api/forget-password/start	-> Returns the account's security questions
		forget.POST("/start", h(recovery.Start))

		// POST /api/forget-password/verify	-> Checks answers and hands out a reset token
		forget.POST("/verify", h(recovery.Verify))

		// POST /api/forget-password/reset	-> Sets a new password with a reset token
		forget.POST("/reset", h(recovery.Reset))
	}

	posts := main.Group("/posts")
	{
		// GET /api/posts		-> Lists published posts with filters
		posts.GET("", cacheFor(30), h(post.List))

		// GET /api/posts/:slug		-> Returns one post with its comments
		posts.GET("/:slug", h(post.Get))

		// POST /api/posts		-> Creates a post
		posts.POST("", jwt, h(post.Create))

		// PUT /api/posts/:slug		-> Updates an owned post
		posts.PUT("/:slug", jwt, h(post.Update))

		// DELETE /api/posts/:slug	-> Deletes an owned post
		posts.DELETE("/:slug", jwt, h(post.Delete))
	}

	// GET /api/highlighted-posts	-> Latest and most liked posts for the landing page
	main.GET("/highlighted-posts", cacheFor(60), h(post.Highlighted))

	tags := main.Group("/tags")
	{
		// GET /api/tags		-> Lists all tags
		tags.GET("", cacheFor(60), h(tag.List))

		// POST /api/tags		-> Creates a tag
		tags.POST("", jwt, h(tag.Create))
	}

	comments := main.Group("/comments")
	{
		// GET /api/comments		-> Lists comments, filterable by post or author
		comments.GET("", h(comment.List))

		// GET /api/comments/mine	-> Lists the caller's own comments
		comments.GET("/mine", jwt, h(comment.Mine))

		// POST /api/comments		-> Adds a comment to a post
		comments.POST("", jwt, h(comment.Create))

		// PUT /api/comments/:id	-> Edits an owned comment
		comments.PUT("/:id", jwt, h(comment.Update))

		// DELETE /api/comments/:id	-> Removes an owned comment
		comments.DELETE("/:id", jwt, h(comment.Delete))
	}

	likes := main.Group("/likes", jwt)
	{
		// GET /api/likes		-> Lists the caller's likes
		likes.GET("", h(like.List))

		// POST /api/likes		-> Likes a post
		likes.POST("", h(like.Create))

		// DELETE /api/likes/:id	-> Removes an own like
		likes.DELETE("/:id", h(like.Delete))
	}

	profiles := main.Group("/profile", jwt)
	{
		// GET /api/profile		-> Returns the caller's account and profile
		profiles.GET("", h(profile.Get))

		// PUT /api/profile		-> Updates profile fields
		profiles.PUT("", h(profile.Update))
	}

	adminPanel := main.Group("/admin-panel", jwt, admins)
	{
		// GET /api/admin-panel			-> Lists all users
		adminPanel.GET("", h(admin.ListUsers))

		// PUT /api/admin-panel/:user_id	-> Toggles a user's admin flag
		adminPanel.PUT("/:user_id", h(admin.SetAdminFlag))

		// DELETE /api/admin-panel/:user_id	-> Deletes a user and their content
		adminPanel.DELETE("/:user_id", h(admin.DeleteUser))
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// makeCache builds the per-URI response cache. Cached entries live in
// redis so every instance serves the same copy.
func makeCache() func(sec int) gin.HandlerFunc {
	store := persist.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	}))

	return func(sec int) gin.HandlerFunc {
		return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
	}
}
