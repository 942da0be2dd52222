package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sfko/legocat/internal/store"
)

var (
	dbInitSeed string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the catalog database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the catalog schema in a SQLite database",
	Long: `Create the catalog tables and indexes in the configured SQLite database.
Existing tables are left untouched. MySQL and PostgreSQL schemas are
managed outside legocat.

Examples:
  legocat db init
  legocat db init --seed catalog.sql`,
	Args: cobra.NoArgs,
	Run:  runDBInit,
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().StringVar(&dbInitSeed, "seed", "", "SQL file to execute after creating the schema")
}

func runDBInit(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	c := initStoreContext(ctx)
	defer c.Close()

	if c.Store.Driver() != store.DriverSQLite {
		exitError("db init supports only the sqlite driver, configured driver is %s", c.Store.Driver())
	}

	if err := c.Store.Initialize(ctx); err != nil {
		exitError("failed to create schema: %v", err)
	}
	version, err := c.Store.SchemaVersion(ctx)
	if err != nil {
		exitError("failed to read schema version: %v", err)
	}
	green.Fprintf(cmd.OutOrStdout(), "Initialized catalog schema v%d in %s\n", version, c.Config.Database.DSN)

	if dbInitSeed == "" {
		return
	}
	seed, err := os.ReadFile(dbInitSeed)
	if err != nil {
		exitError("failed to read seed file: %v", err)
	}
	if _, err := c.Store.DB().ExecContext(ctx, string(seed)); err != nil {
		exitError("failed to load seed file: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n", dbInitSeed)
}
