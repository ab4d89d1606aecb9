//go:build darwin
// +build darwin

package main

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

// AppKit must only be touched from the main thread.
static void ensureMainThread() {
    if (![NSThread isMainThread]) {
        dispatch_sync(dispatch_get_main_queue(), ^{});
    }
}
*/
import "C"

import (
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/config"
	"github.com/aayushbajaj/cafe-telemetry/internal/logging"
	"github.com/aayushbajaj/cafe-telemetry/internal/menubar"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
)

func init() {
	// Ensure main goroutine runs on the main OS thread (required for macOS UI)
	runtime.LockOSThread()
}

func main() {
	C.ensureMainThread()

	ensureHome()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dataDir, err := storage.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get data directory: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.NewFile(cfg.LogLevel, cfg.IsProduction(), filepath.Join(dataDir, "logs", "menubar.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting cafetel menu bar app")

	var store *storage.Store
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
	} else {
		store, err = storage.New()
	}
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		logger.Sync()
		os.Exit(0)
	}()

	menubar.New(store, logger, cfg.TargetLaborPct).Run()
}

// ensureHome sets HOME when it is missing, which happens when launched via
// launchctl or open.
func ensureHome() {
	if os.Getenv("HOME") != "" {
		return
	}
	if u, err := user.Current(); err == nil {
		os.Setenv("HOME", u.HomeDir)
	}
}
