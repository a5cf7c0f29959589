package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect geode planner configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (GEODES_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  geodes config show`,
	}

	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadedConfig
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Geode Planner Configuration")
			fmt.Fprintln(w, "===========================")

			fmt.Fprintln(w, "\nSolver:")
			fmt.Fprintf(w, "  Workers:          %s\n", orDefault(cfg.Solver.Workers, "number of CPUs"))
			fmt.Fprintf(w, "  Max Nodes:        %s\n", orDefault(cfg.Solver.MaxNodes, "unlimited"))
			timeout := "none"
			if cfg.Solver.Timeout > 0 {
				timeout = cfg.Solver.Timeout.String()
			}
			fmt.Fprintf(w, "  Timeout:          %s\n", timeout)
			fmt.Fprintf(w, "  Stall Minutes:    %s\n", orDefault(cfg.Solver.StallMinutes, "off"))
			fmt.Fprintf(w, "  Quality Sum:      horizon %d, eager %t\n", cfg.Solver.Quality.Horizon, cfg.Solver.Quality.Eager)
			fmt.Fprintf(w, "  Top Product:      horizon %d, eager %t, first %d\n",
				cfg.Solver.Top.Horizon, cfg.Solver.Top.Eager, cfg.Solver.Top.Limit)

			fmt.Fprintln(w, "\nDatabase:")
			fmt.Fprintf(w, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(w, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(w, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(w, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(w, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(w, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(w, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(w, "\nDaemon:")
			fmt.Fprintf(w, "  Address:          %s\n", cfg.Daemon.Address)
			fmt.Fprintf(w, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(w, "  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.Daemon.RateLimit.Requests, cfg.Daemon.RateLimit.Burst)
			fmt.Fprintf(w, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Fprintln(w, "\nMetrics:")
			fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(w, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			fmt.Fprintln(w, "\nLogging:")
			fmt.Fprintf(w, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func orDefault(v int, zero string) string {
	if v == 0 {
		return zero
	}
	return fmt.Sprintf("%d", v)
}

// maskPassword hides the password of a database URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
