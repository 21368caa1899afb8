package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"journalgrader/config"
	"journalgrader/controllers"
	"journalgrader/db"
	"journalgrader/internal/assets"
	"journalgrader/internal/logger"
	"journalgrader/internal/ratelimit"
	"journalgrader/middlewares"
	"journalgrader/routes"
	"journalgrader/services"
	"journalgrader/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	if err := run(context.Background(), cfg, appLog); err != nil {
		appLog.Fatal("Server stopped", "error", err)
	}
	appLog.Sync()
}

// run wires every component and serves until the listener fails. Resources
// opened here are released by its defers before main exits.
func run(ctx context.Context, cfg *config.Config, appLog *logger.Logger) error {
	gen, err := services.NewGenerator(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("initialize generation client: %w", err)
	}

	audit, err := db.OpenAuditStore(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("open %s audit store: %w", cfg.Audit.Backend, err)
	}
	defer audit.Close(context.Background())
	appLog.Info("Audit store ready", "backend", cfg.Audit.Backend)

	source, err := assets.NewSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s asset source: %w", cfg.Assets.Backend, err)
	}
	loader := assets.NewLoader(source, cfg.Assets.RosterKey, cfg.Assets.BannerKey, appLog)

	var opts []services.GraderOption
	if cfg.RateLimit.RedisAddr != "" {
		rdb, err := ratelimit.InitRedis(ctx, cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, services.WithLimiter(ratelimit.NewRateLimiter(rdb, ratelimit.RateLimitConfig{
			MaxSubmissions: cfg.RateLimit.MaxSubmissions,
			Window:         time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		})))
		appLog.Info("Submission rate limit enabled", "max_submissions", cfg.RateLimit.MaxSubmissions, "window_seconds", cfg.RateLimit.WindowSeconds)
	}

	grader := services.NewGrader(services.NewCritic(gen, appLog), audit, appLog, opts...)
	jc := controllers.NewJournalController(grader, loader, cfg.Server.Title, appLog)

	router, err := setupRouter(cfg, appLog, jc)
	if err != nil {
		return fmt.Errorf("set up router: %w", err)
	}

	port := strconv.Itoa(cfg.Server.Port)
	appLog.Info("Server starting", "port", port, "provider", cfg.Generation.Provider)
	return router.Run(":" + port)
}

func setupRouter(cfg *config.Config, appLog *logger.Logger, jc *controllers.JournalController) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger(appLog))

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.Server.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	routes.SetupJournalRoutes(router, jc)
	return router, nil
}
