package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"bitboard-engine/config"
	"bitboard-engine/wsserver"
)

func main() {
	log.SetFlags(0)

	err := run()
	if err != nil {
		log.Fatal(err)
	}
}

// run serves the engine on /uci until interrupted.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := flag.String("addr", cfg.WSAddr, "listen address")
	origin := flag.String("origin", "", "allowed cross-origin host pattern (empty = same origin only)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	var origins []string
	if *origin != "" {
		origins = []string{*origin}
	}
	engineServer := wsserver.New(cfg, logger, origins)

	mux := http.NewServeMux()
	mux.Handle("/uci", engineServer)

	httpServer := &http.Server{
		Handler:     mux,
		ReadTimeout: time.Second * 10,
		Addr:        *addr,
	}
	httpServer.RegisterOnShutdown(engineServer.OnShutdown)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("url", "ws://"+*addr+"/uci"))
		errc <- httpServer.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Error("failed to serve", slog.Any("error", err))
	case sig := <-sigs:
		logger.Info("terminating", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
