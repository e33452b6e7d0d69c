package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vietddude/walletdemo/internal/control"
	"github.com/vietddude/walletdemo/internal/core/config"
	"github.com/vietddude/walletdemo/internal/tui"
)

var (
	cfgPath  string
	isDebug  bool
	headless bool
)

var rootCmd = &cobra.Command{
	Use:   "walletdemo",
	Short: "Solana devnet wallet demo",
	Long:  `walletdemo funds a throwaway devnet account from the faucet, connects to a local wallet keystore, and transfers between them.`,
	Run:   runDemo,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run the HTTP surface without the terminal UI")
}

func runDemo(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		initLogging(os.Stderr, slog.LevelInfo)
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	// The terminal UI owns stdout, so interactive runs log to a file
	// (or nowhere) instead.
	logDst := io.Writer(os.Stderr)
	if !headless {
		logDst = io.Discard
		if cfg.Logging.File != "" {
			f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				defer f.Close()
				logDst = f
			}
		}
	}
	initLogging(logDst, slogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := control.NewApp(ctx, *cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	slog.Info("Started", "config", cfgPath, "network", cfg.Network.ID)

	if headless {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Received signal, shutting down...", "signal", sig)
	} else {
		program := tea.NewProgram(tui.New(app.Session(), string(cfg.Network.ID)), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			slog.Error("Terminal UI failed", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}

func initLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))
}
