package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/remote"
)

var (
	yellow  = color.New(color.FgYellow)
	cyan    = color.New(color.FgCyan)
	green   = color.New(color.FgGreen)
	magenta = color.New(color.FgMagenta)
	faint   = color.New(color.Faint)
)

// printSetList writes one set per line followed by the paging hints
func printSetList(w io.Writer, resp *remote.SetListResponse) {
	if len(resp.Sets) == 0 {
		fmt.Fprintln(w, "No sets found")
		return
	}

	for _, s := range resp.Sets {
		yellow.Fprintf(w, "%-12s ", s.SetNum)
		fmt.Fprintf(w, "%s ", s.Name)
		faint.Fprintf(w, "(%d, %s, %d parts)\n", s.Year, s.ThemeName, s.NumParts)
	}

	if resp.PrevPageURL != nil {
		faint.Fprintf(w, "previous: %s\n", *resp.PrevPageURL)
	}
	if resp.NextPageURL != nil {
		faint.Fprintf(w, "next:     %s\n", *resp.NextPageURL)
	}
}

func printSetHeader(w io.Writer, info catalog.BasicSetInfo) {
	yellow.Fprintf(w, "%s ", info.SetNum)
	fmt.Fprintf(w, "%s ", info.SetName)
	faint.Fprintf(w, "(%d, %s, %d parts)\n", info.Year, info.ThemeName, info.NumParts)
}

// printParts writes each part with its variants indented below it
func printParts(w io.Writer, parts []catalog.InventoryPart) {
	if len(parts) == 0 {
		fmt.Fprintln(w, "No parts")
		return
	}

	for _, p := range parts {
		green.Fprintf(w, "%-12s ", p.PartNum)
		fmt.Fprintf(w, "%s ", p.PartName)
		faint.Fprintf(w, "[%s]\n", p.CategoryName)
		for _, v := range p.Variants {
			fmt.Fprintf(w, "    %4d x ", v.Quantity)
			if v.IsTrans {
				cyan.Fprint(w, v.ColorName)
			} else {
				fmt.Fprint(w, v.ColorName)
			}
			if v.IsSpare {
				magenta.Fprint(w, " (spare)")
			}
			fmt.Fprintln(w)
		}
	}
}

func printInventory(w io.Writer, inv *catalog.Inventory) {
	printSetHeader(w, inv.BasicSetInfo)
	faint.Fprintf(w, "inventory version %d\n\n", inv.Version)
	printParts(w, inv.Parts)

	if len(inv.Subsets) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Includes:")
		for _, s := range inv.Subsets {
			fmt.Fprintf(w, "    %4d x ", s.Quantity)
			yellow.Fprintf(w, "%s ", s.SetNum)
			fmt.Fprintln(w, s.SetName)
		}
	}
}

func printCommonInventory(w io.Writer, inv *catalog.CommonInventory) {
	printSetHeader(w, inv.Set1)
	printSetHeader(w, inv.Set2)
	fmt.Fprintln(w)
	printParts(w, inv.Parts)
}

// printThemes writes the forest as an indented tree
func printThemes(w io.Writer, forest []*catalog.Theme) {
	if len(forest) == 0 {
		fmt.Fprintln(w, "No themes")
		return
	}
	var walk func(nodes []*catalog.Theme, depth int)
	walk = func(nodes []*catalog.Theme, depth int) {
		for _, t := range nodes {
			fmt.Fprint(w, strings.Repeat("  ", depth))
			fmt.Fprintf(w, "%s ", t.Name)
			faint.Fprintf(w, "#%d\n", t.ID)
			walk(t.Subthemes, depth+1)
		}
	}
	walk(forest, 0)
}

func printWellness(w io.Writer, resp *remote.WellnessResponse) {
	green.Fprintf(w, "%s ", resp.Status)
	fmt.Fprintf(w, "api v%d, version %s\n", resp.APIVersion, resp.AssemblyVersion)
}
