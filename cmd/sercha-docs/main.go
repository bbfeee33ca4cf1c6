package main

// @title           Sercha Docs API
// @version         1.0
// @description     Versioned markdown documents. Documents hold ordered sections and every edit is recorded as a numbered revision.

// @contact.name   Sercha OSS
// @contact.url    https://github.com/custodia-labs/sercha-docs/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docs/internal/config"
	"github.com/custodia-labs/sercha-docs/internal/logging"
)

// These variables are set via the -ldflags option in go build
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	rootCmd := NewRootCmd()
	NewServeCmd(rootCmd)
	NewMigrateCmd(rootCmd)
	NewTokenCmd(rootCmd)
	NewVersionCmd(rootCmd)
	Execute(rootCmd)
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sercha-docs",
		Short:        "sercha-docs serves versioned markdown documents",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", os.Getenv("SERCHA_DOCS_CONFIG"), "optional config file (yaml, json, toml or env)")
	return cmd
}

func Execute(command *cobra.Command) {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates configuration and installs the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
