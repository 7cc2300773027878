package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query-string keys mirroring FilterState
const (
	ParamQuery     = "q"
	ParamCategory  = "cat"
	ParamSort      = "sort"
	ParamMinPrice  = "min"
	ParamMaxPrice  = "max"
	ParamPageSize  = "pp"
	ParamPage      = "page"
	ParamAvailable = "avail"
	ParamView      = "view"
)

// ParseQuery seeds a FilterState from a query string. Nothing here fails:
// unparsable values fall back to their defaults.
func ParseQuery(values url.Values) FilterState {
	f := DefaultFilterState()
	f.Query = values.Get(ParamQuery)
	f.Category = values.Get(ParamCategory)
	f.Sort = normalizeSort(SortMode(values.Get(ParamSort)))
	f.MinPrice = parseBound(values.Get(ParamMinPrice))
	f.MaxPrice = parseBound(values.Get(ParamMaxPrice))
	if pp, err := strconv.Atoi(values.Get(ParamPageSize)); err == nil && pp > 0 {
		f.PageSize = pp
	}
	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page > 0 {
		f.Page = page
	}
	f.OnlyAvailable = values.Get(ParamAvailable) == "1"
	if values.Get(ParamView) == string(ViewList) {
		f.View = ViewList
	}
	return f
}

// ParseRawQuery is ParseQuery for an encoded string. A malformed pair is
// dropped on its own; the pairs around it still apply.
func ParseRawQuery(raw string) FilterState {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return ParseQuery(values)
}

// Values mirrors the state into query parameters, leaving out every field
// that holds its default.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set(ParamQuery, f.Query)
	}
	if f.Category != "" {
		v.Set(ParamCategory, f.Category)
	}
	if s := normalizeSort(f.Sort); s != SortRelevance {
		v.Set(ParamSort, string(s))
	}
	if f.MinPrice != nil {
		v.Set(ParamMinPrice, formatBound(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set(ParamMaxPrice, formatBound(*f.MaxPrice))
	}
	if f.PageSize > 0 && f.PageSize != DefaultPageSize {
		v.Set(ParamPageSize, strconv.Itoa(f.PageSize))
	}
	if f.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.OnlyAvailable {
		v.Set(ParamAvailable, "1")
	}
	if f.View == ViewList {
		v.Set(ParamView, string(ViewList))
	}
	return v
}

// Encode is the query-string form of Values
func (f FilterState) Encode() string {
	return f.Values().Encode()
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
