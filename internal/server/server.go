// Package server exposes the analysis engine over HTTP: a small JSON API
// plus an HTML dashboard, with a TTL cache in front of the analysis calls.
package server

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/regscope/regscope/internal/cache"
	"github.com/regscope/regscope/internal/model"
	"github.com/regscope/regscope/internal/pipeline"
)

// Server wraps the fiber app and its collaborators
type Server struct {
	app       *fiber.App
	pipeline  *pipeline.Pipeline
	responses cache.Cache
	ttl       time.Duration
	addr      string
}

// New creates the server and registers all routes
func New(cfg *model.Config, p *pipeline.Pipeline) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "regscope",
			DisableStartupMessage: true,
		}),
		pipeline:  p,
		responses: cache.NewMemoryCache(cfg.Server.ResponseTTL, 10*time.Minute),
		ttl:       cfg.Server.ResponseTTL,
		addr:      cfg.Server.Addr,
	}
	s.register()
	return s
}

// Listen serves until the listener fails or is closed
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) register() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/", s.handleDashboard)

	api := s.app.Group("/api")

	api.Get("/titles", func(c *fiber.Ctx) error {
		return s.respondCached(c, "titles", func() (interface{}, error) {
			return s.pipeline.Titles()
		})
	})

	api.Get("/metadata", func(c *fiber.Ctx) error {
		meta, err := s.pipeline.Metadata()
		if err != nil {
			return mapError(c, err)
		}
		return applySuccess(c, meta)
	})

	api.Get("/analysis/titles/:number", func(c *fiber.Ctx) error {
		number, err := strconv.Atoi(c.Params("number"))
		if err != nil {
			return applyError(c, fiber.StatusBadRequest, "Title number must be an integer", nil)
		}
		return s.respondCached(c, "analysis:title:"+c.Params("number"), func() (interface{}, error) {
			return s.pipeline.AnalyzeTitle(number)
		})
	})

	api.Get("/analysis/agencies", func(c *fiber.Ctx) error {
		return s.respondCached(c, "analysis:agencies", func() (interface{}, error) {
			return s.pipeline.AnalyzeAgencies()
		})
	})

	api.Get("/summary", func(c *fiber.Ctx) error {
		return s.respondCached(c, "summary", func() (interface{}, error) {
			summary, _, err := s.pipeline.SummarizeAll()
			return summary, err
		})
	})
}

// respondCached serves the envelope from the response cache when possible,
// otherwise loads, caches, and serves it
func (s *Server) respondCached(c *fiber.Ctx, name string, load func() (interface{}, error)) error {
	key := cache.Key("response", name)
	if data, found := s.responses.Get(key); found {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	v, err := load()
	if err != nil {
		return mapError(c, err)
	}

	payload, err := json.Marshal(envelope{Success: true, Data: v})
	if err != nil {
		return mapError(c, err)
	}
	_ = s.responses.Set(key, payload, s.ttl)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
