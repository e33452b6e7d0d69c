package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/walletdemo/internal/core/config"
	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/infra/solana"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the balance of an address on the configured network",
	Args:  cobra.ExactArgs(1),
	Run:   runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	addr := args[0]
	if err := domain.ValidateAddress(addr); err != nil {
		slog.Error("Invalid address", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := solana.NewClient(solana.Config{
		RPCURL:         cfg.Network.RPCURL,
		Commitment:     cfg.Network.Commitment,
		ConfirmTimeout: cfg.Network.ConfirmTimeout,
	})
	if err != nil {
		slog.Error("Failed to init rpc client", "error", err)
		os.Exit(1)
	}

	bal, err := client.Balance(context.Background(), addr)
	if err != nil {
		slog.Error("Failed to fetch balance", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\t%d lamports\t%s\n", addr, uint64(bal), bal)
}
