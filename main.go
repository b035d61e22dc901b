// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/danielhkuo/random-chooser/chooser"
	"github.com/danielhkuo/random-chooser/cliparse"
	"github.com/danielhkuo/random-chooser/db"
	"github.com/danielhkuo/random-chooser/defaults"
	"github.com/danielhkuo/random-chooser/middleware"
	"github.com/danielhkuo/random-chooser/roster"
	"github.com/danielhkuo/random-chooser/router"
	"github.com/danielhkuo/random-chooser/settings"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Optional log file, in addition to stderr
	if cfg.LogFile != "" {
		logFile := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stderr, logFile), nil)))
	}

	ctx := context.Background()

	// Open settings storage
	var kv settings.KV
	if cfg.DatabaseType == cliparse.DatabaseMemory {
		kv = settings.NewMemoryKV()
		slog.Warn("using in-memory storage; settings are lost on exit")
	} else {
		dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database setup failed", "type", cfg.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		kv, err = settings.NewSQLKV(dbConn, cfg.DatabaseType)
		if err != nil {
			slog.Error("settings storage failed", "error", err)
			os.Exit(1)
		}
	}
	store := settings.NewStore(kv)

	// Default roster
	defs, err := defaults.Load(cfg.DefaultsFile)
	if err != nil {
		slog.Error("failed to load defaults", "file", cfg.DefaultsFile, "error", err)
		os.Exit(1)
	}

	rost := roster.New(ctx, store, defs.Choices)
	c := chooser.New(store, rost, chooser.Config{
		View:       defs.View,
		RollStep:   cfg.RollStep,
		RollSettle: cfg.RollSettle,
	})

	// Create router
	mux := router.NewRouter(c, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "addr", cfg.Addr(), "choices", len(rost.Choices()))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
