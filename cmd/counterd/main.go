// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package counterd runs the counter service.  It serves the REST
// interface and /metrics over HTTP, and the same operations over
// CBOR-RPC.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/backend"
	"github.com/diffeo/go-counter/restserver"
	"github.com/diffeo/go-counter/rpcserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	defaults := DefaultConfig()
	app := cli.NewApp()
	app.Name = "counterd"
	app.Usage = "serve named counters over HTTP and CBOR-RPC"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "YAML configuration file",
			EnvVar: "COUNTERD_CONFIG",
		},
		cli.StringFlag{
			Name:   "http",
			Value:  defaults.HTTP,
			Usage:  "[ip]:port for HTTP REST interface",
			EnvVar: "COUNTERD_HTTP",
		},
		cli.StringFlag{
			Name:   "cborrpc",
			Value:  defaults.CBORRPC,
			Usage:  "[ip]:port for CBOR-RPC interface, empty to disable",
			EnvVar: "COUNTERD_CBORRPC",
		},
		cli.StringFlag{
			Name:   "backend",
			Value:  defaults.Backend,
			Usage:  "impl[:address] of the storage backend",
			EnvVar: "COUNTERD_BACKEND",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  defaults.LogLevel,
			Usage:  "minimum level of log messages",
			EnvVar: "COUNTERD_LOG_LEVEL",
		},
		cli.BoolFlag{
			Name:   "log-requests",
			Usage:  "log all requests",
			EnvVar: "COUNTERD_LOG_REQUESTS",
		},
		cli.Float64Flag{
			Name:   "rate-limit",
			Usage:  "HTTP requests per second per client, 0 for no limit",
			EnvVar: "COUNTERD_RATE_LIMIT",
		},
		cli.IntFlag{
			Name:   "rate-burst",
			Value:  defaults.RateBurst,
			Usage:  "HTTP request burst per client",
			EnvVar: "COUNTERD_RATE_BURST",
		},
		cli.DurationFlag{
			Name:   "metrics-interval",
			Value:  defaults.MetricsInterval,
			Usage:  "how often to refresh counter value metrics",
			EnvVar: "COUNTERD_METRICS_INTERVAL",
		},
	}
	app.Action = run
	app.RunAndExitOnError()
}

func run(c *cli.Context) error {
	config, err := LoadConfig(c)
	if err != nil {
		logrus.WithError(err).Fatal("Could not load configuration")
		return err
	}

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid log level")
		return err
	}
	logrus.SetLevel(level)

	var b backend.Backend
	if err = b.Set(config.Backend); err != nil {
		logrus.WithError(err).Fatal("Invalid backend")
		return err
	}
	store, err := b.Store()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"backend": b.String(),
		}).WithError(err).Fatal("Could not create counter backend")
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	metrics, err := restserver.NewMetrics(registry)
	if err != nil {
		logrus.WithError(err).Fatal("Could not register request metrics")
		return err
	}
	values := newCounterValues()
	registry.MustRegister(values)
	clk := clock.New()
	go observe(ctx, store, values, clk, config.MetricsInterval)

	opts := restserver.Options{
		Logger:      logrus.StandardLogger(),
		LogRequests: config.LogRequests,
		Metrics:     metrics,
	}
	if config.RateLimit > 0 {
		opts.RateLimiter = restserver.NewRateLimiter(config.RateLimit, config.RateBurst, clk)
	}
	server := &http.Server{
		Addr:    config.HTTP,
		Handler: newHTTPHandler(store, registry, opts),
	}
	go func() {
		logrus.WithField("addr", config.HTTP).Info("Serving HTTP")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	if config.CBORRPC != "" {
		var reqLogger logrus.FieldLogger
		if config.LogRequests {
			stdlog := logrus.StandardLogger()
			reqLogger = &logrus.Logger{
				Out:       stdlog.Out,
				Formatter: stdlog.Formatter,
				Hooks:     stdlog.Hooks,
				Level:     logrus.DebugLevel,
			}
		}
		rpc, err := rpcserver.New(store, logrus.StandardLogger(), reqLogger)
		if err != nil {
			logrus.WithError(err).Fatal("Could not create CBOR-RPC server")
			return err
		}
		ln, err := net.Listen("tcp", config.CBORRPC)
		if err != nil {
			logrus.WithError(err).Fatal("Could not listen for CBOR-RPC")
			return err
		}
		defer ln.Close()
		go func() {
			logrus.WithField("addr", config.CBORRPC).Info("Serving CBOR-RPC")
			_ = rpc.Serve(ln)
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	logrus.WithField("signal", sig.String()).Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
