package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"todolist/internal/handler"
	"todolist/internal/service/auth"
	"todolist/internal/session"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
)

// NewRouter wires the full HTTP surface: public pages, the
// authenticated task routes, and the operational endpoints.
func NewRouter(
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	sessions *session.Manager,
	authSvc *auth.Service,
	rdb *redis.Client,
	db *pgxpool.Pool,
	logger *zap.Logger,
	templatesGlob string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RateLimiter(rate.Limit(20), 40))
	r.Use(Identity(sessions, authSvc))

	r.LoadHTMLGlob(templatesGlob)
	r.Static("/static", "./web/static")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(500, gin.H{"status": "redis_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.GET("/", taskHandler.Index)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", LoginThrottle(rdb, loginAttemptLimit, loginAttemptWindow), authHandler.Login)

	// Authenticated
	protected := r.Group("/")
	protected.Use(RequireLogin())
	{
		protected.GET("/logout", authHandler.Logout)
		protected.GET("/task/:id", taskHandler.Detail)
		protected.GET("/create_task", taskHandler.ShowCreate)
		protected.POST("/create_task", taskHandler.Create)
		protected.GET("/:id/edit_task", taskHandler.ShowEdit)
		protected.POST("/:id/edit_task", taskHandler.Edit)
		protected.POST("/:id/delete_task", taskHandler.Delete)
	}

	return r
}
