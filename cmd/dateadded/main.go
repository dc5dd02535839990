package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dateadded/internal/batch"
	"dateadded/internal/server"
	"dateadded/pkg/config"
	"dateadded/pkg/dateadded"
	"dateadded/pkg/security"
)

const (
	// exitCodeSuccess indicates successful termination
	exitCodeSuccess = 0

	// exitCodeError indicates error termination
	exitCodeError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCodeError)
	}

	switch os.Args[1] {
	case "get":
		os.Exit(runBatch("get", os.Args[2:]))
	case "set":
		os.Exit(runBatch("set", os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(exitCodeError)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <get|set|serve> [options] [args...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nSubcommands:\n")
	fmt.Fprintf(os.Stderr, "  get [-v] [-i listfile] [path ...]\n")
	fmt.Fprintf(os.Stderr, "        print the date-added timestamp of each path as \"<timestamp>,<path>\";\n")
	fmt.Fprintf(os.Stderr, "        paths may contain glob patterns. Similar to: mdls -attr kMDItemDateAdded path\n")
	fmt.Fprintf(os.Stderr, "  set [-v] [-i listfile] [timestamp,path ...]\n")
	fmt.Fprintf(os.Stderr, "        set the date-added timestamp of each path; timestamp is ISO-8601,\n")
	fmt.Fprintf(os.Stderr, "        e.g. 2024-01-15T21:20:37,/foo/bar or \"2024-01-15 21:20:37,/foo/bar\"\n")
	fmt.Fprintf(os.Stderr, "  serve [-config file] [directory ...]\n")
	fmt.Fprintf(os.Stderr, "        expose get/set as MCP tools over stdio, limited to the given directories\n")
	fmt.Fprintf(os.Stderr, "\nWith -i, the list file supplies one entry per line (\"-\" reads standard input);\n")
	fmt.Fprintf(os.Stderr, "blank lines and lines starting with # are skipped.\n")
}

// runBatch executes the get or set subcommand. Per-path failures go to the
// error stream and do not affect the exit status; the batch always runs to
// completion.
func runBatch(mode string, args []string) int {
	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose output")
	listFile := fs.String("i", "", "read list from file; if filename is - then stdin is used")
	if err := fs.Parse(args); err != nil {
		return exitCodeError
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger := initializeLogger(level)

	client := dateadded.NewClient(logger)
	runner := batch.NewRunner(client, logger, os.Stdout, os.Stderr)

	var err error
	switch mode {
	case "get":
		err = runner.Get(fs.Args(), *listFile)
	case "set":
		err = runner.Set(fs.Args(), *listFile)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeError
	}
	return exitCodeSuccess
}

// runServe starts the MCP tool server.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file (optional)")
	if err := fs.Parse(args); err != nil {
		return exitCodeError
	}

	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			return exitCodeError
		}
	} else if fs.NArg() > 0 {
		cfg = config.Default()
		cfg.AllowedDirectories = fs.Args()

		if err := validateCommandLineDirectories(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid directory arguments: %v\n", err)
			return exitCodeError
		}
	} else {
		fmt.Fprintf(os.Stderr, "Usage: %s serve -config <config-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "   or: %s serve <allowed-directory> [additional-directories...]\n", os.Args[0])
		return exitCodeError
	}

	logger := initializeLogger(cfg.LogLevel)
	logger.Info("Starting date-added MCP server",
		"version", cfg.Server.Version,
		"allowed_directories", cfg.AllowedDirectories)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		return exitCodeError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	fmt.Fprintf(os.Stderr, "Date-added MCP server running on stdio\n")
	fmt.Fprintf(os.Stderr, "Allowed directories: %v\n", cfg.AllowedDirectories)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", "error", err)
			cancel()
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		return exitCodeError
	}

	logger.Info("Server shutdown complete")
	return exitCodeSuccess
}

// validateCommandLineDirectories validates directories provided via command line
func validateCommandLineDirectories(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is required")
	}
	if len(cfg.AllowedDirectories) == 0 {
		return fmt.Errorf("at least one directory must be specified")
	}

	for i, dir := range cfg.AllowedDirectories {

		dir = security.ExpandHomePath(dir)

		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
		}

		cfg.AllowedDirectories[i] = absDir
		dir = absDir

		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("directory %s is not accessible: %w", dir, err)
		}

		if !info.IsDir() {
			return fmt.Errorf("path %s is not a directory", dir)
		}
	}

	return nil
}

// initializeLogger creates a structured logger with the specified level
func initializeLogger(level string) *slog.Logger {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
