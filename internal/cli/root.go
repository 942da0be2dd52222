// Package cli implements the legocat command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/config"
	"github.com/sfko/legocat/internal/logging"
	"github.com/sfko/legocat/internal/remote"
	"github.com/sfko/legocat/internal/store"
)

var (
	configPath    string
	serverURL     string
	clientTimeout time.Duration

	version = "dev"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	Store   *store.Store
	Catalog remote.CatalogClient
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// loadConfig loads the configuration named by --config
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitError("%v", err)
	}
	return cfg
}

// initStoreContext opens the configured catalog database
func initStoreContext(ctx context.Context) *cmdContext {
	cfg := loadConfig()

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, store.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		exitError("failed to open catalog database: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st}
}

// initCatalogContext resolves the catalog to query: a running server when
// --server is set, the configured database otherwise.
func initCatalogContext(ctx context.Context) *cmdContext {
	if serverURL != "" {
		client := remote.NewHTTPClient(serverURL, clientTimeout)
		return &cmdContext{Catalog: remote.NewRetryClient(client, nil)}
	}

	c := initStoreContext(ctx)
	logger := logging.New(c.Config.Log.Level, c.Config.Log.Format, os.Stderr)
	c.Catalog = &localCatalog{
		svc:   catalog.NewService(c.Store, c.Config.Server.PageSize, logger),
		store: c.Store,
	}
	return c
}

var rootCmd = &cobra.Command{
	Use:   "legocat",
	Short: "LEGO catalog browser",
	Long: `legocat serves and queries a read-only catalog of LEGO sets, themes,
parts and inventories.

Commands query the configured database directly, or a running legocat
server when --server is given.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion records the build version reported by serve and version
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", envOrDefault("LEGOCAT_CONFIG", ""), "Path to a TOML config file (env: LEGOCAT_CONFIG)")
	pf.StringVar(&serverURL, "server", envOrDefault("LEGOCAT_SERVER_URL", ""), "Query a running legocat server instead of the database (env: LEGOCAT_SERVER_URL)")
	pf.DurationVar(&clientTimeout, "timeout", 30*time.Second, "HTTP timeout when using --server")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(commonCmd)
	rootCmd.AddCommand(partSetsCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the legocat version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

// exitError prints an error and exits
func exitError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// envOrDefault returns the value of the environment variable key, or defaultVal if unset.
func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
