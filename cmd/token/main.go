package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/config/env"
	"clusterpay_backend/pkg/token"
)

var (
	envPath string
	userID  int
)

// mint signs an access token the way the external login service does, for local testing.
func mint(cmd *cobra.Command, args []string) error {
	if userID <= 0 {
		return fmt.Errorf("--user must be positive")
	}
	if err := config.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "no env file loaded: %v\n", err)
	}

	cfg, err := env.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("loading jwt config: %w", err)
	}

	tok, err := token.GenerateAccessToken(userID, cfg.AccessTokenSecretKey(), cfg.AccessTokenDuration())
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Println(tok)
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer access token for a player",
		RunE:  mint,
	}
	rootCmd.Flags().StringVar(&envPath, "env", ".env", "Env file with ACCESS_TOKEN and ACCESS_TOKEN_DURATION")
	rootCmd.Flags().IntVar(&userID, "user", 0, "Player id")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
