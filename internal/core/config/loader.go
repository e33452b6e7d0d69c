package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

// Load reads configuration from a YAML file. A missing file is not an
// error: the demo runs entirely on defaults.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	// The transfer amount is transfer_lamports minus the fee margin; both
	// are unsigned, so a margin at or above the transfer would wrap.
	if cfg.Demo.FeeMarginLamports >= cfg.Demo.TransferLamports {
		return nil, fmt.Errorf("fee_margin_lamports (%d) must be less than transfer_lamports (%d)",
			cfg.Demo.FeeMarginLamports, cfg.Demo.TransferLamports)
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Network.ID == "" {
		cfg.Network.ID = domain.NetworkDevnet
	}
	if cfg.Network.RPCURL == "" {
		cfg.Network.RPCURL = cfg.Network.ID.RPCEndpoint()
	}
	if cfg.Network.Commitment == "" {
		cfg.Network.Commitment = "confirmed"
	}
	if cfg.Network.ConfirmTimeout == 0 {
		cfg.Network.ConfirmTimeout = 60 * time.Second
	}
	if cfg.Demo.FaucetLamports == 0 {
		cfg.Demo.FaucetLamports = 2 * domain.LamportsPerSOL
	}
	if cfg.Demo.TransferLamports == 0 {
		cfg.Demo.TransferLamports = domain.LamportsPerSOL
	}
	if cfg.Demo.FeeMarginLamports == 0 {
		cfg.Demo.FeeMarginLamports = 100_000
	}
	if cfg.Provider.DetectWindow == 0 {
		cfg.Provider.DetectWindow = 2 * time.Second
	}
	if cfg.Provider.DetectInterval == 0 {
		cfg.Provider.DetectInterval = 250 * time.Millisecond
	}
}
