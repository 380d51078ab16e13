package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ftbldata/tmscraper/cmd/tmscrape/commands"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	commands.ExecuteContext(context.Background())
}
