package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"overcooked-pos/config"
	httpapi "overcooked-pos/ledger-svc/internal/api/http"
	"overcooked-pos/ledger-svc/internal/service"
	"overcooked-pos/ledger-svc/internal/storage"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const paidMarkerTTL = 24 * time.Hour

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("ledger-svc stopped")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ledger-svc",
		Usage: "order and payment ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8081",
				EnvVars: []string{"LEDGER_ADDR"},
				Usage:   "HTTP listen address",
			},
			&cli.BoolFlag{
				Name:    "no-events",
				EnvVars: []string{"LEDGER_NO_EVENTS"},
				Usage:   "do not publish ledger events to Kafka",
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
	logger := config.SetupLogging("ledger-svc", cfg.LogLevel)

	db := config.MustInitPostgres(cfg.DB)
	defer db.Close()
	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	store := storage.NewPostgresStore(db)
	cache := storage.NewRedisCache(rdb, cfg.Redis.MenuTTL, paidMarkerTTL)

	var publisher service.EventPublisher
	writer := config.NewKafkaWriter(cfg.Kafka)
	if !c.Bool("no-events") {
		publisher = storage.NewKafkaPublisher(writer)
	}

	payment, retry := policiesFrom(cfg)
	handler := &httpapi.Handler{
		Orders:    service.NewOrderService(store, publisher, retry),
		Payments:  service.NewPaymentService(store, cache, publisher, payment, retry),
		Customers: service.NewCustomerService(store),
		Menu:      service.NewMenuService(store, cache),
		Accounts:  service.NewAccountService(store),
		Receipts:  service.NewReceiptService(store, service.DefaultQRGenerator{BaseURL: cfg.Ledger.ReceiptBaseURL}),
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"house_account_id": payment.HouseAccountID,
		"no_overdraft":     payment.EnforceNoOverdraft,
		"max_retries":      retry.MaxRetries,
	}).Info("ledger configured")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.StartServer(ctx, c.String("addr"), httpapi.NewRouter(handler))
	})
	g.Go(func() error {
		<-ctx.Done()
		return writer.Close()
	})
	return g.Wait()
}

func policiesFrom(cfg config.Config) (service.PaymentPolicy, service.RetryPolicy) {
	return service.PaymentPolicy{
			HouseAccountID:     cfg.Ledger.HouseAccountID,
			EnforceNoOverdraft: cfg.Ledger.EnforceNoOverdraft,
			RequireExactAmount: cfg.Ledger.RequireExactAmount,
		}, service.RetryPolicy{
			MaxRetries:      cfg.Ledger.MaxRetries,
			InitialInterval: cfg.Ledger.RetryInitialInterval,
			MaxInterval:     cfg.Ledger.RetryMaxInterval,
			AttemptTimeout:  cfg.Ledger.TxTimeout,
		}
}
