package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "skyduelctl",
		Short: "Operator CLI for the skyduel session server",
		Long: `skyduelctl is an operator CLI for the skyduel session server JSON API.

It supports inspecting rooms and games, reading the chat transcript,
broadcasting critical messages, and force-ending games.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.AdminToken)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SKYDUEL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminToken, "token", cfg.AdminToken, "Admin token (env: SKYDUEL_ADMIN_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newBroadcastCmd())
	rootCmd.AddCommand(newForceEndCmd())
	rootCmd.AddCommand(newTranscriptCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
