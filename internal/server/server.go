package server

import (
	"backend-trailblazer/internal/account"
	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/auth"
	"backend-trailblazer/internal/config"
	"backend-trailblazer/internal/db"
	"backend-trailblazer/internal/docstore"
	"backend-trailblazer/internal/favorite"
	"backend-trailblazer/internal/geocode"
	"backend-trailblazer/internal/navigation"
	"backend-trailblazer/internal/session"
	"backend-trailblazer/internal/storage"
	"backend-trailblazer/internal/stream"
	"backend-trailblazer/internal/traildetail"
	"backend-trailblazer/internal/trailapi"
	"backend-trailblazer/internal/trailsearch"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backends are the external stores the server talks to. Nil Docs or Images
// fall back to in-memory implementations.
type Backends struct {
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Docs   docstore.Store
	Images storage.Store
}

type Server struct {
	App        *fiber.App
	Cfg        config.Config
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Stream     *stream.Hub
	Navigation *navigation.Registry
	Logger     *zap.Logger
}

func NewServer(cfg config.Config, b Backends, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if b.Docs == nil {
		b.Docs = docstore.NewMemoryStore()
	}
	if b.Images == nil {
		b.Images = storage.NewMemoryStore()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler(log),
		BodyLimit:    account.MaxBodyBytes,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:        app,
		Cfg:        cfg,
		DB:         b.DB,
		Redis:      b.Redis,
		Stream:     stream.NewHub(b.Redis, log),
		Navigation: navigation.NewRegistry(),
		Logger:     log,
	}

	registerRoutes(s, b)
	return s
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.Stream.Close()
}

func registerRoutes(s *Server, b Backends) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	sessions := session.NewStore(s.Redis)
	authSvc := auth.NewService(s.Cfg.JWTSecret, querier(s.DB), sessions)
	s.App.Use(session.Middleware(authSvc, sessions))

	gate := session.ContextGate{}
	geocoder := geocode.NewClient(s.Cfg.GeocoderURL, s.Cfg.GeocoderUserAgent, nil)
	trails := trailapi.NewClient(s.Cfg.TrailsAPIURL, s.Cfg.TrailsAPIKey, s.Cfg.TrailsAPIHost, nil)
	favorites := favorite.NewService(b.Docs, gate, s.Stream, s.Logger)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	account.RegisterRoutes(s.App.Group("/account"),
		account.NewService(authSvc, b.Docs, b.Images, gate, s.Navigation, s.Logger))

	trailRoutes := s.App.Group("/trails")
	trailsearch.RegisterRoutes(trailRoutes, trailsearch.NewService(geocoder, trails, s.Logger))
	traildetail.RegisterRoutes(trailRoutes, traildetail.NewService(favorites, geocoder, s.Logger))

	favorite.RegisterRoutes(s.App.Group("/favorites"), favorites)
	navigation.RegisterRoutes(s.App.Group("/navigation"), s.Navigation, gate)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, gate)
}

// querier keeps a missing pool from becoming a non-nil interface.
func querier(pool *pgxpool.Pool) db.Querier {
	if pool == nil {
		return nil
	}
	return pool
}
