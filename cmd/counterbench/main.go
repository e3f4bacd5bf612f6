// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package counterbench provides a load-generation tool for counter
// stores.  Every run checks that no increments were lost.
package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diffeo/go-counter/backend"
	"github.com/diffeo/go-counter/counter"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

type benchCounters struct {
	Store       counter.Store
	Concurrency int
}

func (bench *benchCounters) Run(runner func()) time.Duration {
	start := time.Now()
	wg := sync.WaitGroup{}
	wg.Add(bench.Concurrency)
	for i := 0; i < bench.Concurrency; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
	return time.Since(start)
}

// increment creates one fresh counter and has every runner add to it
// count times in total, returning the number of successful increments.
func (bench *benchCounters) increment(ctx context.Context, name string, count int) (int64, time.Duration, error) {
	if _, err := bench.Store.Create(ctx, name); err != nil {
		return 0, 0, err
	}
	numbers := make(chan int)
	go func() {
		for i := 1; i <= count; i++ {
			numbers <- i
		}
		close(numbers)
	}()
	var done int64
	elapsed := bench.Run(func() {
		for range numbers {
			if _, err := bench.Store.Increment(ctx, name); err != nil {
				logrus.WithError(err).Warn("Increment failed")
				continue
			}
			atomic.AddInt64(&done, 1)
		}
	})
	return done, elapsed, nil
}

// create races every runner to create the same count names, returning
// the number of successful creates.
func (bench *benchCounters) create(ctx context.Context, prefix string, count int) (int64, time.Duration) {
	var done int64
	elapsed := bench.Run(func() {
		for i := 0; i < count; i++ {
			_, err := bench.Store.Create(ctx, fmt.Sprintf("%v_%v", prefix, i))
			if err == nil {
				atomic.AddInt64(&done, 1)
			} else if _, exists := err.(counter.ErrCounterExists); !exists {
				logrus.WithError(err).Warn("Create failed")
			}
		}
	})
	return done, elapsed
}

var bench benchCounters

var incrementCounter = cli.Command{
	Name:  "increment",
	Usage: "increment one counter many times in parallel",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 1000,
			Usage: "total number of increments",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		name := "bench_" + uuid.NewV4().String()
		done, elapsed, err := bench.increment(ctx, name, c.Int("count"))
		if err != nil {
			return err
		}
		final, err := bench.Store.Get(ctx, name)
		if err != nil {
			return err
		}
		fields := logrus.Fields{
			"counter":    name,
			"increments": done,
			"value":      final.Value,
			"elapsed":    elapsed,
		}
		if final.Value != done {
			logrus.WithFields(fields).Error("Lost updates")
			return cli.NewExitError("lost updates", 1)
		}
		logrus.WithFields(fields).Info("Increment benchmark complete")
		return nil
	},
}

var createCounters = cli.Command{
	Name:  "create",
	Usage: "race to create the same counters in parallel",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of distinct counters",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		prefix := "bench_" + uuid.NewV4().String()
		done, elapsed := bench.create(context.Background(), prefix, count)
		fields := logrus.Fields{
			"counters": count,
			"created":  done,
			"elapsed":  elapsed,
		}
		if done != int64(count) {
			logrus.WithFields(fields).Error("Duplicate or missing creates")
			return cli.NewExitError("duplicate or missing creates", 1)
		}
		logrus.WithFields(fields).Info("Create benchmark complete")
		return nil
	},
}

func main() {
	backend := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Usage = "benchmark a counter store"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &backend,
			Usage: "impl:[address] of counter backend",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many clients in parallel",
		},
	}
	app.Commands = []cli.Command{
		incrementCounter,
		createCounters,
	}
	app.Before = func(c *cli.Context) (err error) {
		bench.Store, err = backend.Store()
		if err != nil {
			return
		}
		bench.Concurrency = c.Int("concurrency")
		return
	}
	app.RunAndExitOnError()
}
