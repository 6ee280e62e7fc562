package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/logger"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor web server",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "Host to bind (default $HOST or 0.0.0.0)")
	cmd.Flags().Int("port", 0, "Port to listen on (default $PORT or 3000)")
	cmd.Flags().Bool("debug", false, "Text logs at debug level")
}

// loadConfig reads the environment and applies any flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Debug)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := openAuditDB(ctx, cfg.DatabaseURL, log)
	if pool != nil {
		defer pool.Close()
	}

	renderer := infra.NewChromedpRenderer(cfg.ChromePath, cfg.ExportTimeout)
	sessions := usecase.NewSessions(cfg.SessionTTL, log)
	exporter := usecase.NewExporter(renderer, repo.NewExportsRepo(pool), domain.DefaultExportOptions(), log)
	app := httpadapter.NewApp(httpadapter.NewHandler(sessions, exporter, log))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.Addr()).Info("server listening")
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// openAuditDB connects and migrates the export audit database. Any failure
// leaves auditing off and the server running.
func openAuditDB(ctx context.Context, dsn string, log *logrus.Logger) *pgxpool.Pool {
	if dsn == "" {
		log.Info("DATABASE_URL not set, export audit disabled")
		return nil
	}
	pool, err := infra.NewExportsPool(ctx, dsn)
	if err != nil {
		log.WithError(err).Warn("exports DB not available")
		return nil
	}
	if err := migration.RunMigrations(ctx, pool, log); err != nil {
		log.WithError(err).Warn("export audit migrations failed")
		pool.Close()
		return nil
	}
	return pool
}
