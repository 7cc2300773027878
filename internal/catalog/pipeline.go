package catalog

import (
	"math"
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// View is one page of the filtered catalog
type View struct {
	Items      []models.Product `json:"items"`
	TotalCount int              `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}

// DeriveView filters, sorts and pages products for the given state.
// It never fails: malformed bounds, sizes or pages degrade to "no constraint"
// or to the nearest valid value. The returned Page is the clamped page the
// caller should store back into its state.
func DeriveView(products []models.Product, f FilterState) View {
	matched := Filter(products, f)
	SortProducts(matched, f.Sort)

	size := f.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(matched)
	pages := TotalPages(total, size)

	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View{
		Items:      matched[start:end],
		TotalCount: total,
		TotalPages: pages,
		Page:       page,
		PageSize:   size,
	}
}

// TotalPages is max(1, ceil(total/size))
func TotalPages(total, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Filter returns the products matching every predicate of f, in input order.
// The input slice is not modified.
func Filter(products []models.Product, f FilterState) []models.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	min := usableBound(f.MinPrice)
	max := usableBound(f.MaxPrice)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		price := p.PriceValue()
		if min != nil && price < *min {
			continue
		}
		if max != nil && price > *max {
			continue
		}
		if f.OnlyAvailable && !p.Available() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders products in place. Relevance keeps backend order;
// the price sorts are stable so equal prices keep their relative order.
func SortProducts(products []models.Product, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceValue() < products[j].PriceValue()
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceValue() > products[j].PriceValue()
		})
	}
}

func usableBound(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
