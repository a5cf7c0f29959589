package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	remoteAddr string
	verbose    bool

	// loadedConfig is populated before any subcommand runs
	loadedConfig *config.Config
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geodes",
		Short: "Geode planner - find the best build order for every blueprint",
		Long: `Geode planner searches, minute by minute, which production unit to build
so that a blueprint yields the most geodes within a time horizon.

Searches run in-process by default. With --remote the CLI sends the work to a
running geodes-daemon over gRPC instead.

Examples:
  geodes solve input.txt
  geodes solve input.txt --quality-horizon 24 --top-horizon 32 --workers 4
  geodes simulate input.txt --blueprint 2 --horizon 24
  geodes solve input.txt --remote localhost:50061
  geodes runs list --limit 10
  geodes config show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			loadedConfig = cfg
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml, /etc/geodes/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", os.Getenv("GEODES_REMOTE"),
		"Daemon address (host:port); searches run locally when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSolveCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
