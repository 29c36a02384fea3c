package http

import (
	"net/http"
	"time"

	"tempo/internal/config"
	"tempo/internal/http/handlers"
	"tempo/internal/http/middleware"
	"tempo/internal/logger"
	"tempo/internal/ws"
	"tempo/static"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config) {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, cfg, hub)
	healthHandler := handlers.NewHealthHandler(db)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Browser-facing auth; in-process limiter is enough here
	authRL := middleware.SimpleRateLimit(10, time.Minute)
	r.GET("/auth/google", authRL, h.GoogleLogin)
	r.GET("/auth/google/callback", authRL, h.GoogleCallback)
	r.POST("/auth/demo", authRL, h.DemoLogin)
	r.POST("/auth/logout", h.Logout)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second))

	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/categories", middleware.JWT(), h.GetCategories)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.JWT())
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.POST("/parse", h.ParseTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/toggle", h.ToggleTask)
	}

	// Task change push for the owner's other tabs
	r.GET("/ws", middleware.JWT(), h.WS)

	registerStatic(r)
}

// registerStatic serves the embedded frontend: assets under /static, the
// login page, and the app shell for everything else.
func registerStatic(r *gin.Engine) {
	r.StaticFS("/static", http.FS(static.FS))
	r.GET("/login", servePage("login.html"))
	r.NoRoute(servePage("index.html"))
}

func servePage(name string) gin.HandlerFunc {
	data, err := static.FS.ReadFile(name)
	if err != nil {
		logger.Fatal("embedded page missing", "name", name, "error", err)
	}
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
}
