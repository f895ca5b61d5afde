// Command resona runs the resonance-drive exploration game.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"resona/internal/game"
	"resona/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := os.Getenv("RESONA_DB")
	if dbPath == "" {
		dbPath = filepath.Join("data", "resona.db")
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	var store game.SessionStore
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Warn("database unavailable, progress will not persist", "path", dbPath, "err", err)
	} else {
		defer db.Close()
		store = db
		slog.Info("database opened", "path", dbPath)
	}

	game.RunDesktop(store)
}
