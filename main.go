package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/mattn/go-isatty"

	"edroute/internal/api"
	"edroute/internal/config"
	"edroute/internal/log"
	_ "edroute/internal/tracker" // Import tracker package to register Start implementation
	"edroute/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set up global panic handler first
	defer func() {
		if r := recover(); r != nil {
			log.Error("GLOBAL PANIC recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "Application crashed. See the debug log for details.\n")
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad configuration: %v\n", err)
		os.Exit(1)
	}

	// Configure debug logging to file
	if err := log.SetFileOutput(cfg.LogFile); err != nil {
		fmt.Printf("Warning: Could not configure debug logging to file: %v\n", err)
	}
	defer log.Close()

	// Catch termination signals so the terminal is restored
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		log.Error("SIGNAL RECEIVED", "signal", sig.String())
		fmt.Fprintf(os.Stderr, "Application received signal %s.\n", sig.String())
		os.Exit(1)
	}()

	// Check if we have a proper TTY
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("edroute - route companion for Elite Dangerous")
		fmt.Println("This application requires a terminal/TTY to run properly.")
		fmt.Println("Please run this in a proper terminal environment.")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Warn("Cannot create data directory", "error", err)
	}

	// Initialize and run the tview application
	app := tui.NewApplication(api.Options{
		DatabasePath: cfg.DatabasePath,
		JournalDir:   cfg.JournalDir,
	})
	app.SetVersionInfo(version, commit, date)
	if err := app.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
