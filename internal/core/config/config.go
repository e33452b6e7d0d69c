package config

import (
	"time"

	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig    `yaml:"server"`
	Network  NetworkConfig   `yaml:"network"`
	Demo     DemoConfig      `yaml:"demo"`
	Provider ProviderConfig  `yaml:"provider"`
	Logging  LoggingConfig   `yaml:"logging"`
	Database postgres.Config `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log file path; used when the terminal UI owns stdout
}

// NetworkConfig selects the target cluster.
type NetworkConfig struct {
	ID             domain.NetworkID `yaml:"id"`         // devnet, testnet
	RPCURL         string           `yaml:"rpc_url"`    // overrides the network default when set
	Commitment     string           `yaml:"commitment"` // processed, confirmed, finalized
	ConfirmTimeout time.Duration    `yaml:"confirm_timeout"`
}

// DemoConfig holds the demo's fixed amounts, made explicit configuration.
type DemoConfig struct {
	FaucetLamports    uint64 `yaml:"faucet_lamports"`
	TransferLamports  uint64 `yaml:"transfer_lamports"`
	FeeMarginLamports uint64 `yaml:"fee_margin_lamports"`
}

// ProviderConfig holds wallet-provider detection settings.
type ProviderConfig struct {
	KeystorePath   string        `yaml:"keystore_path"`   // empty = conventional locations
	DetectWindow   time.Duration `yaml:"detect_window"`   // how long to wait for the capability to appear
	DetectInterval time.Duration `yaml:"detect_interval"` // poll interval within the window
}
