package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"storefront-service/internal/catalog"
)

var (
	catalogQuery    string
	catalogCategory string
	catalogSort     string
	catalogMin      string
	catalogMax      string
	catalogPageSize int
	catalogPage     int
	catalogAvail    bool
	catalogView     string
	catalogReset    bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the catalog page for the current filters",
	Long: `Shows one page of the catalog. Flags change the stored filters; any
change other than --page or --view returns to the first page.

Example:
  storefront catalog --q beras --sort price-asc --pp 8
  storefront catalog --min "" --page 2`,
	RunE: runCatalog,
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Refetch products and categories from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.storefront.Reload(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(app.out, okStyle.Render(fmt.Sprintf("Loaded %d products and %d categories",
			len(app.catalog.Products()), len(app.catalog.Categories()))))
		return nil
	},
}

func init() {
	f := catalogCmd.Flags()
	f.StringVar(&catalogQuery, "q", "", "search title and description")
	f.StringVar(&catalogCategory, "cat", "", "category slug (empty for all)")
	f.StringVar(&catalogSort, "sort", "", "relevance, price-asc or price-desc")
	f.StringVar(&catalogMin, "min", "", "minimum price (empty to clear)")
	f.StringVar(&catalogMax, "max", "", "maximum price (empty to clear)")
	f.IntVar(&catalogPageSize, "pp", catalog.DefaultPageSize, "products per page")
	f.IntVar(&catalogPage, "page", 1, "page number")
	f.BoolVar(&catalogAvail, "avail", false, "only products in stock")
	f.StringVar(&catalogView, "view", "", "grid or list")
	f.BoolVar(&catalogReset, "reset", false, "restore the default filters first")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if catalogReset {
		if _, err := app.storefront.ResetFilters(ctx, localSession); err != nil {
			return err
		}
	}

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}

	page, err := app.storefront.UpdateFilters(ctx, localSession, patch)
	if err != nil {
		return err
	}
	renderCatalog(app.out, page)
	return nil
}

// patchFromFlags turns the flags the user actually set into a filter patch
func patchFromFlags(cmd *cobra.Command) (catalog.FilterPatch, error) {
	var patch catalog.FilterPatch
	flags := cmd.Flags()

	if flags.Changed("q") {
		patch.Query = &catalogQuery
	}
	if flags.Changed("cat") {
		patch.Category = &catalogCategory
	}
	if flags.Changed("sort") {
		mode := catalog.SortMode(catalogSort)
		patch.Sort = &mode
	}
	if flags.Changed("min") {
		bound, unset, err := parsePriceFlag("min", catalogMin)
		if err != nil {
			return patch, err
		}
		patch.MinPrice, patch.ClearMinPrice = bound, unset
	}
	if flags.Changed("max") {
		bound, unset, err := parsePriceFlag("max", catalogMax)
		if err != nil {
			return patch, err
		}
		patch.MaxPrice, patch.ClearMaxPrice = bound, unset
	}
	if flags.Changed("pp") {
		patch.PageSize = &catalogPageSize
	}
	if flags.Changed("page") {
		patch.Page = &catalogPage
	}
	if flags.Changed("avail") {
		patch.OnlyAvailable = &catalogAvail
	}
	if flags.Changed("view") {
		view := catalog.ViewMode(catalogView)
		patch.View = &view
	}
	return patch, nil
}

func parsePriceFlag(name, raw string) (*float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false, fmt.Errorf("--%s must be a number, got %q", name, raw)
	}
	return &v, false, nil
}
