package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"comply_desk/catalog"
	"comply_desk/config"
	"comply_desk/generator"
	"comply_desk/server"
)

var (
	serveAddr    string
	serveCatalog string
	serveWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web site and the kit generation endpoint",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides config server_addr)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "products.json to serve instead of the built-in catalog")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the catalog file when it changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ServerAddr = serveAddr
	}
	if serveCatalog != "" {
		cfg.CatalogPath = serveCatalog
	}
	if cmd.Flags().Changed("watch") {
		cfg.WatchCatalog = serveWatch
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := loadCatalogStore(ctx, cfg)
	if err != nil {
		return err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	if cfg.LLM.Provider != "mock" && cfg.LLM.ResolveAPIKey() == "" {
		logger.Warn("no API key configured; every generation request will fail until one is set",
			slog.String("env", cfg.LLM.APIKeyEnv))
	}
	agent, err := generator.NewAgent(llm, logger)
	if err != nil {
		return err
	}
	srv, err := server.New(agent, store, server.Options{Logger: logger, Timeout: cfg.LLM.Timeout})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("starting web server", slog.String("addr", cfg.ServerAddr), slog.String("provider", cfg.LLM.Provider))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func loadCatalogStore(ctx context.Context, cfg config.Config) (*catalog.Store, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return nil, err
		}
	}
	store, err := catalog.NewStore(cat)
	if err != nil {
		return nil, err
	}
	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		if err := catalog.Watch(ctx, cfg.CatalogPath, store, logger); err != nil {
			return nil, err
		}
	}
	return store, nil
}
