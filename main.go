package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/clues/internal/httpserver"
	"github.com/robalobadob/clues/internal/puzzles"
	"github.com/robalobadob/clues/internal/store"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("clues exited")
	}
}

// run loads the puzzle dataset and serves the game API until ctx is done.
func run(ctx context.Context, cfg *Config) error {
	repo, err := puzzles.LoadSource(cfg.puzzlesPath)
	if err != nil {
		return err
	}

	srv := httpserver.New(repo, store.NewMemoryStore(), httpserver.Options{
		ClientOrigin:   cfg.clientOrigin,
		DailySalt:      cfg.dailySalt,
		SessionTimeout: cfg.sessionTimeout,
	})
	log.Info().Str("addr", cfg.addr()).Int("puzzles", repo.Count()).Msg("starting clues server")
	return srv.Start(ctx, cfg.addr())
}
