package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"bitboard-engine/config"
	"bitboard-engine/uci"
)

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// run serves the protocol on in/out. Logs go to errOut so they never mix
// with protocol output.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Debug("engine starting",
		slog.Int("hash_mb", cfg.HashMB),
		slog.Duration("move_overhead", cfg.MoveOverhead))

	return uci.NewHandler(cfg, logger).Run(ctx, in, out)
}
