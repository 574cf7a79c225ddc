// Command ledgerctl lists, fetches and submits Helium ledger transactions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("ledgerctl failed")
		stop()
		os.Exit(1)
	}
}
