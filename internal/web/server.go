package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/sqlite3/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"uocsclub.net/aocboard/internal/board"
	"uocsclub.net/aocboard/internal/config"
	"uocsclub.net/aocboard/internal/leaderboard"
	"uocsclub.net/aocboard/internal/web/templates"
)

type Server struct {
	App     *fiber.App
	board   *board.Service
	fetcher board.Fetcher
	format  leaderboard.Formatter
	clock   clockwork.Clock
	config  ServerConfig
	store   *session.Store
}

type ServerConfig struct {
	Port int
	// SessionDB is the in-memory sqlite3 database fiber sessions are kept in.
	// Empty, or anything that would land on disk, uses fiber's memory store.
	SessionDB string
	Featured  config.FeaturedConfig
}

type Deps struct {
	Board     *board.Service
	Fetcher   board.Fetcher
	Formatter leaderboard.Formatter
	Clock     clockwork.Clock
	Registry  *prometheus.Registry
}

func NewServer(config ServerConfig, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Formatter.Location == nil {
		deps.Formatter = leaderboard.DefaultFormatter()
	}

	s := &Server{
		App: fiber.New(fiber.Config{
			AppName:      "aocboard",
			ErrorHandler: CustomErrorHandler,
		}),
		board:   deps.Board,
		fetcher: deps.Fetcher,
		format:  deps.Formatter,
		clock:   deps.Clock,
		config:  config,
		store:   newSessionStore(config.SessionDB),
	}

	s.App.Use(recover.New())
	s.App.Use(LoggingMiddleware())
	if deps.Registry != nil {
		s.App.Use(newRequestMetrics(deps.Registry).MonitorMiddleware())
	}
	s.App.Use(SecurityHeaders())
	s.App.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Accept,Content-Type",
		AllowCredentials: false, // credentials require explicit origins
		MaxAge:           300,
	}))

	s.App.Use("/assets", filesystem.New(filesystem.Config{
		Root:       http.FS(AssetsEFS),
		PathPrefix: "assets",
		Browse:     false,
	}))

	s.App.All("/api/leaderboard", s.HandleProxy)
	s.App.Get("/healthz", s.HandleHealth)
	if deps.Registry != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	s.App.Post("/load", s.HandleLoad)
	s.App.Get("/board", s.HandleBoard)
	s.App.Post("/refresh", s.HandleRefresh)
	s.App.Get("/logout", s.HandleLogout)
	s.App.Get("/", s.HandleRoot)

	return s
}

func newSessionStore(database string) *session.Store {
	cfg := session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}

	if !config.IsMemoryDSN(database) {
		slog.Warn("Ignoring on-disk session database, sessions stay in memory", slog.String("database", database))
		database = ""
	}

	if len(database) > 0 {
		cfg.Storage = sqlite3.New(sqlite3.Config{
			Database: database,
			Table:    "fiber_storage",
			Reset:    true,
		})
	}

	return session.New(cfg)
}

func (s *Server) Listen() error {
	return s.App.Listen(fmt.Sprintf(":%d", s.config.Port))
}

func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

func (s *Server) Render(c *fiber.Ctx, component templ.Component) error {
	c.Set("Content-Type", "text/html")
	context := c.Context()

	renderOrder := []func(templ.Component) templ.Component{}

	if c.Get("HX-Request") != "true" {
		renderOrder = append(renderOrder, templates.Index)
	}

	// we need to render bottom-up
	for i := len(renderOrder) - 1; i >= 0; i -= 1 {
		component = renderOrder[i](component)
	}

	return component.Render(context, c.Response().BodyWriter())
}

func redirect(c *fiber.Ctx, target string) error {
	// if there is htmx loaded, force a full redirect
	if c.Get("HX-Request") == "true" {
		c.Set("HX-Redirect", target)
		return c.SendStatus(200)
	}

	// no HTMX, native redirect will work
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "aocboard",
	})
}
