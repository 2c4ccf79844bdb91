// AI Dashboard - a terminal interface for project-scoped assistant chats.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Azichi/AI-Dashboard/internal/api"
	"github.com/Azichi/AI-Dashboard/internal/config"
	"github.com/Azichi/AI-Dashboard/internal/files"
	"github.com/Azichi/AI-Dashboard/internal/overrides"
	"github.com/Azichi/AI-Dashboard/internal/repo"
	"github.com/Azichi/AI-Dashboard/internal/session"
	"github.com/Azichi/AI-Dashboard/internal/store"
	"github.com/Azichi/AI-Dashboard/internal/ui/chat"
	"github.com/Azichi/AI-Dashboard/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.ai-dashboard/config.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ai-dashboard %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	client, err := newClient(cfg)
	if err != nil {
		fatal(err)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		fatal(err)
	}
	ov, err := overrides.Open(filepath.Join(dataDir, "overrides.db"))
	if err != nil {
		fatal(fmt.Errorf("open overrides store: %w", err))
	}
	defer ov.Close()

	ctrl := session.New(repo.New(client), ov)
	theme := styles.NewTheme()
	m := chat.New(ctrl, files.New(client), theme, cfg.Mode, cfg.UI.MarkdownRendering)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// newClient picks the backing store: an HTTP client in remote mode, the
// on-disk store (seeded with demo data on first run) in local mode.
func newClient(cfg *config.Config) (api.Client, error) {
	if cfg.Mode == config.ModeLocal {
		dataDir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}
		s, err := store.Open(filepath.Join(dataDir, "store"))
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		if err := s.Seed(); err != nil {
			return nil, fmt.Errorf("seed local store: %w", err)
		}
		return api.NewLocalClient(s), nil
	}

	return api.NewRemoteClient(api.RemoteConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	}), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ai-dashboard: %v\n", err)
	os.Exit(1)
}
