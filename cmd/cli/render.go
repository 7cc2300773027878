package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// formatRupiah renders an amount the way the storefront prices are shown,
// e.g. Rp80.000
func formatRupiah(amount float64) string {
	s := decimal.NewFromFloat(amount).Round(0).String()
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

func renderCatalog(w io.Writer, page *services.CatalogPage) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Catalog  page %d/%d  (%d products)",
		page.View.Page, page.View.TotalPages, page.View.TotalCount)))
	if page.Query != "" {
		fmt.Fprintln(w, mutedStyle.Render("filters: "+page.Query))
	}

	if len(page.View.Items) == 0 {
		fmt.Fprintln(w, "No products match these filters.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if page.Filters.View == catalog.ViewList {
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSTOCK\tDESCRIPTION")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tSTOCK")
	}
	for _, p := range page.View.Items {
		stock := "in stock"
		if !p.Available() {
			stock = "sold out"
		}
		if page.Filters.View == catalog.ViewList {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, formatRupiah(p.PriceValue()), stock, p.Description)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, formatRupiah(p.PriceValue()), stock)
		}
	}
	tw.Flush()

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("cart: %d line(s)", page.CartLineCount)))
}

func renderCart(w io.Writer, summary *models.CartSummary) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Cart  %d line(s), %d item(s)", summary.LineCount, summary.ItemCount)))
	if summary.LineCount == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tLINE TOTAL")
	for _, line := range summary.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", line.ProductID, line.Title, line.Quantity,
			formatRupiah(line.Price), formatRupiah(line.LineTotal()))
	}
	tw.Flush()

	renderTotals(w, summary.Totals, summary.Coupon)
}

func renderTotals(w io.Writer, totals models.Totals, coupon string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Subtotal\t%s\n", formatRupiah(totals.Subtotal))
	fmt.Fprintf(tw, "Discount\t-%s\n", formatRupiah(totals.Discount))
	fmt.Fprintf(tw, "Delivery\t%s\n", formatRupiah(totals.DeliveryFee))
	fmt.Fprintf(tw, "Total\t%s\n", formatRupiah(totals.Total))
	tw.Flush()

	switch {
	case totals.Applied != nil:
		fmt.Fprintln(w, okStyle.Render("coupon "+coupon+": "+*totals.Applied))
	case coupon != "" && totals.Subtotal > 0:
		fmt.Fprintln(w, warnStyle.Render("coupon "+coupon+" is not valid"))
	}
}
