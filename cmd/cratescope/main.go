// cratescope is a terminal browser for crates.io. It searches crates,
// lists recent updates, shows trending Rust repositories from GitHub and
// compares crates side by side with a security check for each.
//
// It takes no arguments. Settings come from
// ~/.config/cratescope/config.toml (or $CRATESCOPE_CONFIG) and
// CRATESCOPE_* environment variables. Logs go to a file since the
// terminal belongs to the UI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/git-pkgs/cratescope"
	_ "github.com/git-pkgs/cratescope/all"
	"github.com/git-pkgs/cratescope/internal/browse"
	"github.com/git-pkgs/cratescope/internal/config"
	"github.com/git-pkgs/cratescope/internal/core"
	"github.com/git-pkgs/cratescope/internal/github"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		return fmt.Errorf("unexpected argument %q: cratescope takes no arguments", os.Args[1])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	c := cratescope.NewClient(
		cratescope.WithTimeout(cfg.HTTP.Timeout),
		cratescope.WithMaxRetries(cfg.HTTP.MaxRetries),
		cratescope.WithLogger(logger),
		cratescope.WithUserAgent(cfg.HTTP.UserAgent),
	)

	reg, err := cratescope.New("cargo", cfg.Registry.URL, c)
	if err != nil {
		return err
	}
	trending := github.New(cfg.GitHub.URL, c, github.WithLanguage(cfg.GitHub.Language))
	src := cratescope.NewSource(reg, trending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := browse.New(ctx, src,
		browse.WithPageSize(cfg.Registry.PageSize),
		browse.WithTickInterval(cfg.UI.TickInterval),
		browse.WithDefaultQuery(cfg.UI.DefaultQuery),
		browse.WithPeriod(core.Period(cfg.UI.TrendPeriod)),
		browse.WithLogger(logger),
	)

	logger.Info("starting", "registry", cfg.Registry.URL, "query", cfg.UI.DefaultQuery)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("ui exited", "error", err)
		return err
	}
	logger.Info("exiting")
	return nil
}

func openLog(cfg config.LogConfig) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
