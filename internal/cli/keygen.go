package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

var keygenOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a keypair file usable as a wallet keystore",
	Run:   runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&keygenOut, "out", "id.json", "output keypair file")
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) {
	acct, err := domain.GenerateAccount()
	if err != nil {
		slog.Error("Failed to generate keypair", "error", err)
		os.Exit(1)
	}

	// Standard keypair file format: a JSON array of the 64 secret key bytes.
	raw := make([]int, len(acct.PrivateKey))
	for i, b := range acct.PrivateKey {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		slog.Error("Failed to encode keypair", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(keygenOut, data, 0o600); err != nil {
		slog.Error("Failed to write keypair file", "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\naddress: %s\n", keygenOut, acct.Address)
}
