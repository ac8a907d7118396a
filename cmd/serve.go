package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intel/internal/actions"
	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/concierge"
	"github.com/sells-group/lead-intel/internal/monitoring"
	"github.com/sells-group/lead-intel/internal/project"
	"github.com/sells-group/lead-intel/internal/server"
	"github.com/sells-group/lead-intel/pkg/anthropic"
	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		src := leadfeeder.NewClient(cfg.Leadfeeder.Key,
			leadfeeder.WithBaseURL(cfg.Leadfeeder.BaseURL),
			leadfeeder.WithRateLimit(cfg.Leadfeeder.RateLimit),
		)
		store := analysis.NewResultStore()
		svc := analysis.NewService(cfg, src, store)
		projects := project.NewStore()

		registry := concierge.DefaultRegistry()
		if path := cfg.Concierge.ActionRegistryPath; path != "" {
			loaded, err := concierge.LoadRegistry(path)
			if err != nil {
				return err
			}
			registry = loaded
		}

		assistant := concierge.NewClaudeAssistant(
			anthropic.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
			registry,
		)
		executor := actions.NewExecutor(projects, svc)
		manager := concierge.NewManager(assistant, executor, registry, cfg.Concierge.EventBuffer)
		collector := monitoring.NewCollector(store)

		api := server.New(svc, manager, projects, collector, cfg.Server.AuthToken, cfg.Server.CORSOrigins)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.Handler(),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
