package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
	"github.com/sfko/legocat/internal/validation"
)

var (
	setsQuery models.SetQuery
	setsPage  int

	partColorID     int64
	partMinQuantity int64
	partPage        int
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List and search sets",
	Long: `List sets ordered by name, optionally filtered.

Examples:
  legocat sets --name "x-wing"
  legocat sets --year 1979 --theme 130
  legocat sets --min-parts 1000 --page 2`,
	Args: cobra.NoArgs,
	Run:  runSets,
}

var partSetsCmd = &cobra.Command{
	Use:   "part-sets <part-num>",
	Short: "List the sets that contain a part",
	Long: `List the sets whose inventory contains a part as a regular (non-spare) part.

Examples:
  legocat part-sets 3001
  legocat part-sets 3001 --color 4 --min-quantity 10`,
	Args: cobra.ExactArgs(1),
	Run:  runPartSets,
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory <set-num>",
	Short: "Show the parts of a set",
	Args:  cobra.ExactArgs(1),
	Run:   runInventory,
}

var commonCmd = &cobra.Command{
	Use:   "common <set-num> <set-num>",
	Short: "Show the parts two sets have in common",
	Long: `Show the regular parts found in both sets, per color, with the smaller
of the two quantities.`,
	Args: cobra.ExactArgs(2),
	Run:  runCommon,
}

var themesCmd = &cobra.Command{
	Use:   "themes [root-id]",
	Short: "Show the theme hierarchy",
	Long:  `Show every theme as a tree, or only the descendants of root-id.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runThemes,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the catalog is reachable",
	Args:  cobra.NoArgs,
	Run:   runHealth,
}

func init() {
	f := setsCmd.Flags()
	f.StringVar(&setsQuery.Name, "name", "", "Case-insensitive substring of the set name")
	f.Int64Var(&setsQuery.Year, "year", 0, "Release year")
	f.Int64Var(&setsQuery.ThemeID, "theme", 0, "Theme id")
	f.Int64Var(&setsQuery.MinParts, "min-parts", 0, "Only sets with more than this many parts")
	f.IntVar(&setsPage, "page", 0, "Zero-based page number")

	pf := partSetsCmd.Flags()
	pf.Int64Var(&partColorID, "color", 0, "Only rows in this color id")
	pf.Int64Var(&partMinQuantity, "min-quantity", 0, "Only rows with more than this quantity")
	pf.IntVar(&partPage, "page", 0, "Zero-based page number")
}

func runSets(cmd *cobra.Command, _ []string) {
	if setsPage < 0 {
		exitError("--page must not be negative")
	}
	ctx := cmd.Context()
	c := initCatalogContext(ctx)
	defer c.Close()

	resp, err := c.Catalog.ListSets(ctx, setsQuery, setsPage)
	if err != nil {
		exitError("failed to list sets: %v", err)
	}
	printSetList(cmd.OutOrStdout(), resp)
}

func runPartSets(cmd *cobra.Command, args []string) {
	partNum := requireCatalogID("part number", args[0])
	if partPage < 0 {
		exitError("--page must not be negative")
	}

	q := models.PartUsageQuery{PartNum: partNum, MinQuantity: partMinQuantity}
	if cmd.Flags().Changed("color") {
		q.ColorID = &partColorID
	}

	ctx := cmd.Context()
	c := initCatalogContext(ctx)
	defer c.Close()

	resp, err := c.Catalog.SetsWithPart(ctx, q, partPage)
	if err != nil {
		exitNotFoundOr(err, "part %s does not exist", partNum)
	}
	printSetList(cmd.OutOrStdout(), resp)
}

func runInventory(cmd *cobra.Command, args []string) {
	setNum := requireCatalogID("set number", args[0])

	ctx := cmd.Context()
	c := initCatalogContext(ctx)
	defer c.Close()

	inv, err := c.Catalog.SetInventory(ctx, setNum)
	if err != nil {
		exitNotFoundOr(err, "set %s has no inventory", setNum)
	}
	printInventory(cmd.OutOrStdout(), inv)
}

func runCommon(cmd *cobra.Command, args []string) {
	first := requireCatalogID("set number", args[0])
	second := requireCatalogID("set number", args[1])

	ctx := cmd.Context()
	c := initCatalogContext(ctx)
	defer c.Close()

	inv, err := c.Catalog.CommonInventory(ctx, first, second)
	if err != nil {
		exitNotFoundOr(err, "set %s or %s has no inventory", first, second)
	}
	printCommonInventory(cmd.OutOrStdout(), inv)
}

func runThemes(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	var rootID int64
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			exitError("invalid theme id %q", args[0])
		}
		rootID = id
	}

	c := initCatalogContext(ctx)
	defer c.Close()

	forest, err := fetchThemes(ctx, c, len(args) == 1, rootID)
	if err != nil {
		exitNotFoundOr(err, "theme %d does not exist", rootID)
	}
	printThemes(cmd.OutOrStdout(), forest)
}

func fetchThemes(ctx context.Context, c *cmdContext, subtree bool, rootID int64) ([]*catalog.Theme, error) {
	if subtree {
		return c.Catalog.Subthemes(ctx, rootID)
	}
	return c.Catalog.Themes(ctx)
}

func runHealth(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	c := initCatalogContext(ctx)
	defer c.Close()

	resp, err := c.Catalog.Wellness(ctx)
	if err != nil {
		exitError("catalog unavailable: %v", err)
	}
	printWellness(cmd.OutOrStdout(), resp)
}

// requireCatalogID exits unless s is a well-formed set or part number
func requireCatalogID(what, s string) string {
	if !validation.IsCatalogID(s) {
		exitError("invalid %s %q", what, s)
	}
	return s
}

// exitNotFoundOr exits with the not-found message for catalog.ErrNotFound
// and with err otherwise.
func exitNotFoundOr(err error, format string, args ...any) {
	if errors.Is(err, catalog.ErrNotFound) {
		exitError(format, args...)
	}
	exitError("%v", err)
}
