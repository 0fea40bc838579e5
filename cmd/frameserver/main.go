// SPDX-License-Identifier: Unlicense OR MIT

// Command frameserver wires the render backend and the debug/automation
// server into one process, coordinating their lifecycles the way spec
// §5 describes for the render-backend and debug-server threads.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tiledframe/core/backend"
	"github.com/tiledframe/core/debugserver"
	"github.com/tiledframe/core/internal/config"
	"github.com/tiledframe/core/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	conf := config.Default()
	if *configPath != "" {
		var err error
		conf, err = config.Load(*configPath)
		if err != nil {
			logging.Fatalf("frameserver: loading config: %v", err)
		}
	}
	// AZUL_DEBUG overrides the config file (spec §6 "Environment variables").
	if portStr, ok := os.LookupEnv("AZUL_DEBUG"); ok {
		if port, err := strconv.Atoi(portStr); err == nil && port >= 0 {
			conf.DebugPort = port
			conf.DebugEnabled = true
		}
	}
	logging.SetDebug(conf.DebugEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rb := backend.New(nil, nil)

	var dbg *debugserver.Server
	if conf.DebugEnabled {
		dcfg := debugserver.Default()
		dcfg.Port = conf.DebugPort
		dbg = debugserver.New(dcfg)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rb.Run()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		ack := make(chan struct{})
		rb.StopRenderBackend()
		rb.ShutDown(ack)
		<-ack
		return nil
	})

	if dbg != nil {
		g.Go(func() error {
			return dbg.ListenAndServe()
		})

		g.Go(func() error {
			ticker := time.NewTicker(16 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					dbg.Shutdown()
					return nil
				case <-ticker.C:
					dbg.ProcessPending(func(req *debugserver.DebugRequest) debugserver.Response {
						return debugserver.Err(fmt.Sprintf("frameserver: event %q has no window host wired", req.Event.Type))
					})
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logging.Fatalf("frameserver: %v", err)
	}
}
