package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"overcooked-pos/api-gateway/internal/gateway"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("api-gateway stopped")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "api-gateway",
		Usage: "routes client traffic to the ledger and analytics services",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"GATEWAY_ADDR"}},
			&cli.StringFlag{Name: "ledger-url", Value: "http://localhost:8081", EnvVars: []string{"LEDGER_SVC_URL"}},
			&cli.StringFlag{Name: "analytics-url", Value: "http://localhost:8082", EnvVars: []string{"ANALYTICS_SVC_URL"}},
			&cli.DurationFlag{Name: "upstream-timeout", Value: 15 * time.Second, EnvVars: []string{"GATEWAY_UPSTREAM_TIMEOUT"}},
		},
		Action: run,
	}
}

func configFrom(c *cli.Context) gateway.Config {
	return gateway.Config{
		LedgerSvcURL:    c.String("ledger-url"),
		AnalyticsSvcURL: c.String("analytics-url"),
	}
}

func run(c *cli.Context) error {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	gw := gateway.NewGateway(configFrom(c), &http.Client{Timeout: c.Duration("upstream-timeout")})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           corsHandler.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("api gateway starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
