package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/merchantops/paytm-gateway/internal/checksum"
	"github.com/spf13/cobra"
)

// signCmd signs a raw JSON payload read from stdin with the configured
// merchant key. Useful for reproducing gateway signatures while debugging
// rejected requests.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a JSON payload from stdin with the merchant key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}

		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		signature, err := checksum.Generate(string(payload), cfg.Paytm.KeySecret)
		if err != nil {
			return err
		}

		fmt.Println(signature)
		return nil
	},
}
