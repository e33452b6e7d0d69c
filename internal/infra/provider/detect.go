package provider

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DetectConfig controls capability detection.
type DetectConfig struct {
	KeystorePath string        // explicit path; empty = conventional locations
	Window       time.Duration // how long to keep looking before giving up
	Interval     time.Duration // poll interval
}

// Detect locates the wallet capability. The host environment may still be
// provisioning it at startup, so detection polls for a short grace window
// before concluding absence. Absence is reported as (nil, false), never as
// an error.
func Detect(ctx context.Context, cfg DetectConfig) (Provider, bool) {
	log := slog.Default().With("component", "provider")

	window := cfg.Window
	if window == 0 {
		window = 2 * time.Second
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = 250 * time.Millisecond
	}

	deadline := time.Now().Add(window)
	for {
		for _, path := range candidatePaths(cfg.KeystorePath) {
			p, err := OpenKeystore(path)
			if err == nil {
				log.Info("wallet provider detected", "keystore", path, "address", p.Address())
				return p, true
			}
			if !errors.Is(err, os.ErrNotExist) {
				// A present but unreadable keystore is worth a note;
				// it still counts as absence.
				log.Warn("keystore present but unusable", "keystore", path, "error", err)
			}
		}

		if time.Now().After(deadline) {
			log.Info("no wallet provider detected")
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(interval):
		}
	}
}

// candidatePaths lists keystore locations in resolution order.
func candidatePaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		return []string{explicit}
	}
	if env := os.Getenv("SOLANA_KEYSTORE"); env != "" {
		paths = append(paths, env)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "solana", "id.json"))
	}
	return paths
}
