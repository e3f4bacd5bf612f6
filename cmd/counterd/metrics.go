// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/counter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func newCounterValues() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "counterd",
			Name:      "counter_value",
			Help:      "Current value of each counter",
		},
		[]string{"name"},
	)
}

// recordValues copies the current value of every counter into gauge.
func recordValues(ctx context.Context, store counter.Store, gauge *prometheus.GaugeVec) error {
	counters, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range counters {
		gauge.With(prometheus.Labels{"name": c.Name}).Set(float64(c.Value))
	}
	return nil
}

// observe records counter values once and then on every tick of
// interval until ctx is done.
func observe(ctx context.Context, store counter.Store, gauge *prometheus.GaugeVec, clk clock.Clock, interval time.Duration) {
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	for {
		if err := recordValues(ctx, store, gauge); err != nil {
			logrus.WithError(err).Warn("Could not collect counter values")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
