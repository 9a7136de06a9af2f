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
		Use:   "nexus",
		Short: "CLI tool for the nexus studio API",
		Long: `nexus is a CLI tool for interacting with the nexus JSON API.

It covers the session lifecycle, the chat, canvas, voice and lens modules,
the creator console with a live stats stream, and profile settings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: NEXUS_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: NEXUS_OUTPUT)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (env: NEXUS_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newCanvasCmd())
	rootCmd.AddCommand(newVoiceCmd())
	rootCmd.AddCommand(newLensCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newUpgradeCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// output returns a formatter bound to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
