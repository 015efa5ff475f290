package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"overcooked-pos/agg-svc/internal/service"
	"overcooked-pos/agg-svc/internal/storage"
	"overcooked-pos/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("agg-svc stopped")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "agg-svc",
		Usage: "invalidates cached reports as the ledger changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "retry-max-interval",
				Value:   30 * time.Second,
				EnvVars: []string{"AGG_RETRY_MAX_INTERVAL"},
				Usage:   "longest pause between attempts at a failing event",
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
	logger := config.SetupLogging("agg-svc", cfg.LogLevel)

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka)
	consumer := service.NewConsumer(reader, storage.NewStore(rdb))
	consumer.NewBackOff = service.ExponentialBackOff(c.Duration("retry-max-interval"))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"topic":    cfg.Kafka.Topic,
		"group_id": cfg.Kafka.GroupID,
	}).Info("subscribing")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		return reader.Close()
	})
	return g.Wait()
}
