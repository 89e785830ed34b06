package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/surrealdb/surrealcms/pkg/surrealcms"
)

func main() {
	// Optional .env for local development; the environment wins otherwise
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// SIGINT/SIGTERM cancel the context, which drains the server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := surrealcms.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("surrealcms failed")
	}
}
