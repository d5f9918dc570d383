package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"backend-tripgallery/internal/about"
	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/auth"
	"backend-tripgallery/internal/catalog"
	"backend-tripgallery/internal/config"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/db"
	"backend-tripgallery/internal/events"
	"backend-tripgallery/internal/member"
	"backend-tripgallery/internal/pipeline"
	"backend-tripgallery/internal/routestats"
	"backend-tripgallery/internal/shared/httperr"
	"backend-tripgallery/internal/trip"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Events  *events.Hub
	Catalog *catalog.Service
	Regen   *pipeline.Coordinator
	Auth    *auth.Service
	Limiter *auth.LoginLimiter
}

// NewServer wires every service. Background work (event listening, limiter
// sweeping) stops when ctx is cancelled.
func NewServer(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	policy, err := routestats.ParseElevationPolicy(cfg.ElevationPolicy)
	if err != nil {
		return nil, err
	}
	hub, err := events.NewHub(ctx, redisClient)
	if err != nil {
		return nil, err
	}

	store := content.NewStore(cfg.ContentDir)
	writer := artifact.NewWriter(cfg.DataDir, cfg.DataURLPrefix)

	var q db.Querier
	if pg != nil {
		q = pg
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      pg,
		Redis:   redisClient,
		Events:  hub,
		Catalog: catalog.NewService(cfg.DataDir, store, cfg.CacheTTL),
		Regen:   pipeline.NewCoordinator(pipeline.New(store, writer, policy), redisClient, hub),
		Auth:    auth.NewService(cfg.JWTSecret, q),
		Limiter: auth.NewLoginLimiter(cfg.LoginRatePerMin),
	}

	hub.Listen(ctx, func(events.Event) { s.Catalog.Invalidate() })
	go s.sweepLimiter(ctx)

	registerRoutes(s, store, writer)
	return s, nil
}

func registerRoutes(s *Server, store *content.Store, writer *artifact.Writer) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	admin := s.App.Group("/admin")

	catalog.RegisterRoutes(s.App, s.Catalog)
	s.App.Static(s.Cfg.DataURLPrefix, s.Cfg.DataDir)
	about.RegisterRoutes(s.App, admin, about.NewService(s.Cfg.DataDir), jwtMiddleware)

	auth.RegisterRoutes(s.App.Group("/auth"), s.Auth, s.Limiter)
	auth.RegisterAdminRoutes(admin.Group("/users"), s.Auth, jwtMiddleware)
	trip.RegisterRoutes(admin.Group("/trips"), trip.NewService(store, writer, s.Regen), jwtMiddleware)
	member.RegisterRoutes(admin.Group("/members"), member.NewService(store, s.Regen), jwtMiddleware)

	admin.Post("/regenerate", jwtMiddleware, func(c *fiber.Ctx) error {
		report, err := s.Regen.Regenerate(c.Context())
		if err != nil {
			return httperr.From(err)
		}
		return c.JSON(fiber.Map{
			"trips":   report.Trips,
			"members": report.Members,
			"skipped": report.Skipped,
		})
	})
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Limiter.Sweep(time.Hour)
		}
	}
}
