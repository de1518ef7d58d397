package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventario-mcp/internal/config"
	"inventario-mcp/internal/inventario/service"
	serverhttp "inventario-mcp/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	inv := service.NewIndex(cfg.InventarioPath, logger)
	cat := service.NewCatalog(cfg.ComplementsPath, service.DefaultAliases(), logger)
	engine := service.NewEngine(inv, cat, service.DefaultRules(), logger)

	// initial loads; the catalog is allowed to be absent, the inventory is not
	if err := inv.Refresh(); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.InventarioPath).Msg("load inventory")
	}
	if err := cat.Refresh(); err != nil {
		logger.Warn().Err(err).Str("path", cfg.ComplementsPath).Msg("load complements")
	}

	r := serverhttp.NewRouter(cfg, engine, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
