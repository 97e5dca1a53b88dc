/*
Package main
File: main.go
Description: Game entry point. Loads the catalog, builds the engine and its
observers, starts the stdin reader and the optional observer API, and runs
the tick loop until interrupted.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/cookey-typer/internal/api"
	"github.com/everforgeworks/cookey-typer/internal/command"
	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/console"
	"github.com/everforgeworks/cookey-typer/internal/game"
	"github.com/everforgeworks/cookey-typer/internal/journal"
	"github.com/everforgeworks/cookey-typer/internal/metrics"
	"github.com/everforgeworks/cookey-typer/internal/typing"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "catalog YAML path (empty uses the embedded catalog)")
		httpAddr    = flag.String("http", "", "observer API listen address, e.g. 127.0.0.1:8081 (empty disables)")
		journalDir  = flag.String("journal", "", "ledger journal directory (empty disables)")
		logPath     = flag.String("log", "", "log file (default stderr)")
		pulseEvery  = flag.Int("pulse_every", 10, "ticks between websocket pulses")
		seed        = flag.Int64("seed", 0, "prompt sentence seed (0 uses the clock)")
	)
	flag.Parse()

	// 1. Logging never goes to stdout, which belongs to the game
	var logOut io.Writer = os.Stderr
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.New(logOut, "[cookey] ", log.LstdFlags|log.Lmicroseconds)

	// 2. Load the static catalog
	cat, err := loadCatalog(*catalogPath)
	if err != nil {
		logger.Fatalf("Config Fail: %v", err)
	}
	logger.Printf("catalog %s: %d facilities, %d upgrades", cat.Digest[:12], len(cat.Facilities), len(cat.Upgrades))

	// 3. Observers
	rec := metrics.New()
	ledgerObs := []game.LedgerObserver{rec}
	tickObs := []game.TickObserver{rec}

	if *journalDir != "" {
		j, err := journal.Open(*journalDir, cat, logger)
		if err != nil {
			logger.Fatalf("journal: %v", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				logger.Printf("journal close: %v", err)
			}
		}()
		ledgerObs = append(ledgerObs, j)
		tickObs = append(tickObs, j)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *api.Hub
	if *httpAddr != "" {
		hub = api.NewHub(logger)
		go hub.Run(ctx)
		tickObs = append(tickObs, api.NewPulse(hub, *pulseEvery))
	}

	// 4. Engine
	engine, err := game.NewEngine(cat, game.Options{
		Logger:          logger,
		LedgerObservers: ledgerObs,
		TickObservers:   tickObs,
	})
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	// 5. Input: stdin reader and the line handler
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	queue := console.NewQueue()
	handler := console.NewHandler(engine, command.NewParser(cat), typing.NewPrompter(cat.Sentences, "", *seed), os.Stdout, logger)
	console.StartReader(os.Stdin, queue, logger)

	// 6. Observer API
	if *httpAddr != "" {
		srv := &http.Server{
			Addr:              *httpAddr,
			Handler:           api.NewServer(engine, queue, hub, rec.Handler(), logger).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Printf("observer API live on %s", *httpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("observer API: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// 7. Run the game
	handler.Start()
	if err := engine.Run(ctx, queue, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("engine stopped: %v", err)
	}
}

func loadCatalog(path string) (*config.Catalog, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}
