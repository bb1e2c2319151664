package main

import (
	"context"

	"github.com/aandrx/portfolio/config"
	"github.com/aandrx/portfolio/dlog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	// version is set at build time with -ldflags "-X main.version=..."
	version = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Photography portfolio site server",
	Long: `Serves the portfolio pages and the contact, newsletter and RSVP form apis.

Configuration is read from the toml file, then from env vars holding json
(REDIS_<name>, HTTP, DATABASE, JWT, LAYOUT, RATELIMIT), then from CONFIG_URL.`,
	SilenceUsage: true,
}

// loadConfig applies the config file, env and web config.
func loadConfig(ctx context.Context) error {
	return config.Load(ctx, configFile)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigFile(), "Path of the toml config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(switchOffCmd)
	rootCmd.AddCommand(switchOnCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		dlog.Fatal().Err(err).Msg("portfolio exited")
	}
}
