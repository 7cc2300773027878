package catalog

// SortMode orders the filtered product list
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// ViewMode is the layout a client renders the page in
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// DefaultPageSize is used when no valid page size was chosen
const DefaultPageSize = 12

// FilterState is everything that shapes the catalog view of a session.
//
// Changing the query, category, price bounds, sort, availability flag or
// page size puts the session back on page 1. The setters below only do so
// when the value really changes. Changing the layout or the page itself
// leaves the other fields alone.
type FilterState struct {
	Query         string   `json:"query"`
	Category      string   `json:"category"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
	Sort          SortMode `json:"sort"`
	OnlyAvailable bool     `json:"onlyAvailable"`
	Page          int      `json:"page"`
	PageSize      int      `json:"pageSize"`
	View          ViewMode `json:"view"`
}

// DefaultFilterState returns the state of a fresh session
func DefaultFilterState() FilterState {
	return FilterState{
		Sort:     SortRelevance,
		Page:     1,
		PageSize: DefaultPageSize,
		View:     ViewGrid,
	}
}

func (f *FilterState) SetQuery(q string) {
	if f.Query != q {
		f.Query = q
		f.Page = 1
	}
}

func (f *FilterState) SetCategory(slug string) {
	if f.Category != slug {
		f.Category = slug
		f.Page = 1
	}
}

// SetMinPrice sets the lower bound; nil clears it
func (f *FilterState) SetMinPrice(v *float64) {
	if !sameBound(f.MinPrice, v) {
		f.MinPrice = copyBound(v)
		f.Page = 1
	}
}

// SetMaxPrice sets the upper bound; nil clears it
func (f *FilterState) SetMaxPrice(v *float64) {
	if !sameBound(f.MaxPrice, v) {
		f.MaxPrice = copyBound(v)
		f.Page = 1
	}
}

// SetSort switches sort mode. Unknown modes fall back to relevance.
func (f *FilterState) SetSort(mode SortMode) {
	mode = normalizeSort(mode)
	if f.Sort != mode {
		f.Sort = mode
		f.Page = 1
	}
}

func (f *FilterState) SetOnlyAvailable(only bool) {
	if f.OnlyAvailable != only {
		f.OnlyAvailable = only
		f.Page = 1
	}
}

// SetPageSize accepts any positive size; anything else means the default
func (f *FilterState) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	if f.PageSize != size {
		f.PageSize = size
		f.Page = 1
	}
}

// SetPage moves to page n. The upper bound is applied by DeriveView,
// which knows how many pages there are.
func (f *FilterState) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	f.Page = n
}

func (f *FilterState) SetView(v ViewMode) {
	if v != ViewList {
		v = ViewGrid
	}
	f.View = v
}

// Reset clears every filter back to the defaults
func (f *FilterState) Reset() {
	*f = DefaultFilterState()
}

// Normalize repairs zero values, e.g. after decoding a partial record
func (f *FilterState) Normalize() {
	f.Sort = normalizeSort(f.Sort)
	if f.View != ViewList {
		f.View = ViewGrid
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
}

// FilterPatch is a partial update. Nil fields are left as they are.
// ClearMinPrice/ClearMaxPrice remove a bound.
type FilterPatch struct {
	Query         *string   `json:"query,omitempty"`
	Category      *string   `json:"category,omitempty"`
	MinPrice      *float64  `json:"minPrice,omitempty"`
	MaxPrice      *float64  `json:"maxPrice,omitempty"`
	ClearMinPrice bool      `json:"clearMinPrice,omitempty"`
	ClearMaxPrice bool      `json:"clearMaxPrice,omitempty"`
	Sort          *SortMode `json:"sort,omitempty"`
	OnlyAvailable *bool     `json:"onlyAvailable,omitempty"`
	PageSize      *int      `json:"pageSize,omitempty"`
	Page          *int      `json:"page,omitempty"`
	View          *ViewMode `json:"view,omitempty"`
}

// Apply runs the patch through the setters. An explicit page is applied
// last so "set page size 24 and go to page 3" lands on page 3.
func (f *FilterState) Apply(p FilterPatch) {
	if p.Query != nil {
		f.SetQuery(*p.Query)
	}
	if p.Category != nil {
		f.SetCategory(*p.Category)
	}
	if p.ClearMinPrice {
		f.SetMinPrice(nil)
	} else if p.MinPrice != nil {
		f.SetMinPrice(p.MinPrice)
	}
	if p.ClearMaxPrice {
		f.SetMaxPrice(nil)
	} else if p.MaxPrice != nil {
		f.SetMaxPrice(p.MaxPrice)
	}
	if p.Sort != nil {
		f.SetSort(*p.Sort)
	}
	if p.OnlyAvailable != nil {
		f.SetOnlyAvailable(*p.OnlyAvailable)
	}
	if p.PageSize != nil {
		f.SetPageSize(*p.PageSize)
	}
	if p.View != nil {
		f.SetView(*p.View)
	}
	if p.Page != nil {
		f.SetPage(*p.Page)
	}
}

func normalizeSort(mode SortMode) SortMode {
	switch mode {
	case SortPriceAsc, SortPriceDesc:
		return mode
	default:
		return SortRelevance
	}
}

func sameBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyBound(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
