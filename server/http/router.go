package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"inventario-mcp/internal/config"
	"inventario-mcp/internal/inventario/service"
	"inventario-mcp/internal/mcp"
	"inventario-mcp/internal/middleware"
	"inventario-mcp/server/http/handlers"
)

func NewRouter(cfg config.Config, engine *service.Engine, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	wire := mcp.NewWireLog(cfg.WireLogFile)
	srv := mcp.NewServer(engine, wire, logger)
	r.Get("/mcp", srv.Handler())

	return r
}
