package main

import (
	"os"
	"os/signal"
	"syscall"

	httpapi "overcooked-pos/analytics-svc/internal/api/http"
	"overcooked-pos/analytics-svc/internal/service"
	"overcooked-pos/config"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("analytics-svc stopped")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "analytics-svc",
		Usage: "read-only sales reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8082",
				EnvVars: []string{"ANALYTICS_ADDR"},
				Usage:   "HTTP listen address",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogging("analytics-svc", cfg.LogLevel)

	db := sqlx.NewDb(config.MustInitPostgres(cfg.DB), "postgres")
	defer db.Close()
	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	handler := httpapi.NewHandler(service.NewAnalyticsService(db, rdb, cfg.Redis.ReportTTL))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return httpapi.StartServer(ctx, c.String("addr"), httpapi.NewRouter(handler))
}
