package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"

	"github.com/sgleason/bizatlas/internal/api"
	"github.com/sgleason/bizatlas/internal/app"
	"github.com/sgleason/bizatlas/internal/cache"
	"github.com/sgleason/bizatlas/internal/fetch"
	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
	"github.com/sgleason/bizatlas/internal/loader"
	"github.com/sgleason/bizatlas/internal/store"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "bizatlas",
		Short:         "Demographic and business-listing ingest plus reporting server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the YAML config file")

	root.AddCommand(loadCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and opens the shared resources both commands need.
func setup() (*config.Config, *logger.Logger, *store.PersistentStore, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger error: %w", err)
	}

	db, err := store.NewPersistentStore(cfg.Store.SQLitePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store error: %w", err)
	}

	return cfg, log, db, nil
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Run the fetch-cache-persist pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.Search.APIKey == "" {
				return fmt.Errorf("search.api_key is required to run the loader")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			responses := cache.Load(cfg.Cache.Path, log)
			fetcher := fetch.New(cfg.Search, responses, log)

			if err := loader.New(cfg, log, fetcher, db).Run(ctx); err != nil {
				log.Error("pipeline failed: %v", err)
				return err
			}

			log.Info("pipeline finished, cache holds %d entries", responses.Len())
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the reporting HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			appCtx := app.NewContext(cfg, log, db)

			e := echo.New()
			api.RegisterRoutes(e, appCtx)

			srv := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: e,
			}

			log.Info("serving reports on :%s", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
