package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aandrx/portfolio/config"
	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/httpserve"
	"github.com/aandrx/portfolio/layout"
	"github.com/aandrx/portfolio/permission"
	"github.com/aandrx/portfolio/site"
	"github.com/aandrx/portfolio/store"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var port int64

// serveCmd runs the http server until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and form apis",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int64VarP(&port, "port", "p", 0, "Listen port, overrides the configured one")
}

// defaultRedis is the redis client named "default", nil when not configured.
func defaultRedis() *redis.Client {
	rc, err := config.GetRdsClientByName("default")
	if err != nil {
		return nil
	}
	return rc
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadConfig(ctx); err != nil {
		return err
	}
	defer config.StopWebRefresh()
	cfg := *config.Current()
	if port > 0 {
		cfg.Http.Port = port
	}

	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := site.LoadCatalog()
	if err != nil {
		return err
	}
	pages, err := site.New(catalog, layout.Options{
		ViewportHeight: cfg.Layout.ViewportHeight,
		ColumnWidth:    cfg.Layout.ColumnWidth,
		ColumnGap:      cfg.Layout.ColumnGap,
	})
	if err != nil {
		return err
	}

	rc := defaultRedis()
	permission.KeepLoading(ctx, rc, time.Minute)

	srv, err := httpserve.New(httpserve.Options{Config: &cfg, Current: config.Current, Store: db, Site: pages, Redis: rc})
	if err != nil {
		return err
	}
	dlog.Info().Str("version", version).Int("projects", len(catalog.Projects)).Msg("portfolio ready")
	if err = srv.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

