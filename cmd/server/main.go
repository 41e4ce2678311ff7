package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/santoshphuyala/multimanager/internal/auth"
	"github.com/santoshphuyala/multimanager/internal/config"
	"github.com/santoshphuyala/multimanager/internal/server"
	"github.com/santoshphuyala/multimanager/internal/storage/sqlite"
	"github.com/santoshphuyala/multimanager/pkg/logging"
)

func main() {
	// .env is optional; real environment variables win either way.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	gate := auth.NewPINGate(store, sessions)

	srv := server.New(store, gate, sessions)

	// h2c serves HTTP/2 without TLS for local clients.
	handler := h2c.NewHandler(srv.Routes(), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
