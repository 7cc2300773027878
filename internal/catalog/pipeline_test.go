package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/models"
)

func product(id, title string, price float64, category string) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Price:    models.Float64Ptr(price),
		Category: category,
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func sampleCatalog() []models.Product {
	kopi := product("p1", "Kopi Arabika", 45000, "minuman")
	kopi.Description = "Biji kopi pilihan"
	teh := product("p2", "Teh Hijau", 20000, "minuman")
	keripik := product("p3", "Keripik Singkong", 15000, "makanan")
	inStock := false
	keripik.InStock = &inStock
	sambal := product("p4", "Sambal Bawang", 20000, "makanan")
	sambal.Description = "Pedas, cocok dengan kopi"
	noPrice := models.Product{ID: "p5", Title: "Sample Gratis", Category: "promo"}
	return []models.Product{kopi, teh, keripik, sambal, noPrice}
}

func TestDeriveView_NoFiltersKeepsBackendOrder(t *testing.T) {
	view := DeriveView(sampleCatalog(), DefaultFilterState())

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(view.Items))
	assert.Equal(t, 5, view.TotalCount)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.Page)
}

func TestDeriveView_TextMatchesTitleOrDescription(t *testing.T) {
	f := DefaultFilterState()
	f.SetQuery("  KOPI ")

	view := DeriveView(sampleCatalog(), f)

	assert.Equal(t, []string{"p1", "p4"}, ids(view.Items))
}

func TestDeriveView_CategoryIsExact(t *testing.T) {
	f := DefaultFilterState()
	f.SetCategory("makanan")
	assert.Equal(t, []string{"p3", "p4"}, ids(DeriveView(sampleCatalog(), f).Items))

	f.SetCategory("makan")
	assert.Empty(t, DeriveView(sampleCatalog(), f).Items)
}

func TestDeriveView_PriceBoundsAreInclusive(t *testing.T) {
	f := DefaultFilterState()
	f.SetMinPrice(models.Float64Ptr(15000))
	f.SetMaxPrice(models.Float64Ptr(20000))

	view := DeriveView(sampleCatalog(), f)

	assert.Equal(t, []string{"p2", "p3", "p4"}, ids(view.Items))
}

func TestDeriveView_MissingPriceCountsAsZero(t *testing.T) {
	f := DefaultFilterState()
	f.SetMaxPrice(models.Float64Ptr(0))

	assert.Equal(t, []string{"p5"}, ids(DeriveView(sampleCatalog(), f).Items))
}

func TestDeriveView_OnlyAvailableExcludesExplicitFalse(t *testing.T) {
	f := DefaultFilterState()
	f.SetOnlyAvailable(true)

	view := DeriveView(sampleCatalog(), f)

	assert.Equal(t, []string{"p1", "p2", "p4", "p5"}, ids(view.Items))
}

func TestDeriveView_PredicatesCombine(t *testing.T) {
	f := DefaultFilterState()
	f.SetCategory("makanan")
	f.SetOnlyAvailable(true)
	f.SetQuery("sambal")

	assert.Equal(t, []string{"p4"}, ids(DeriveView(sampleCatalog(), f).Items))
}

func TestDeriveView_PriceSortsAreStable(t *testing.T) {
	f := DefaultFilterState()

	f.SetSort(SortPriceAsc)
	assert.Equal(t, []string{"p5", "p3", "p2", "p4", "p1"}, ids(DeriveView(sampleCatalog(), f).Items))

	f.SetSort(SortPriceDesc)
	assert.Equal(t, []string{"p1", "p2", "p4", "p3", "p5"}, ids(DeriveView(sampleCatalog(), f).Items))
}

func TestDeriveView_UnknownSortIsRelevance(t *testing.T) {
	f := DefaultFilterState()
	f.Sort = SortMode("popular")

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(DeriveView(sampleCatalog(), f).Items))
}

func TestDeriveView_DoesNotReorderInput(t *testing.T) {
	products := sampleCatalog()
	f := DefaultFilterState()
	f.SetSort(SortPriceAsc)

	DeriveView(products, f)

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(products))
}

func manyProducts(n int) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, product(fmt.Sprintf("p%02d", i), fmt.Sprintf("Item %d", i), float64(i*1000), "all"))
	}
	return out
}

func TestDeriveView_Pagination(t *testing.T) {
	products := manyProducts(25)

	t.Run("last page is partial", func(t *testing.T) {
		f := DefaultFilterState()
		f.SetPage(3)
		view := DeriveView(products, f)
		assert.Equal(t, 3, view.TotalPages)
		assert.Equal(t, 3, view.Page)
		assert.Equal(t, []string{"p25"}, ids(view.Items))
	})

	t.Run("page above range is clamped", func(t *testing.T) {
		f := DefaultFilterState()
		f.SetPage(99)
		view := DeriveView(products, f)
		assert.Equal(t, 3, view.Page)
		assert.Len(t, view.Items, 1)
	})

	t.Run("non-positive page size falls back to default", func(t *testing.T) {
		f := DefaultFilterState()
		f.PageSize = 0
		view := DeriveView(products, f)
		assert.Equal(t, DefaultPageSize, view.PageSize)
		assert.Len(t, view.Items, DefaultPageSize)
	})

	t.Run("any positive size is accepted", func(t *testing.T) {
		f := DefaultFilterState()
		f.SetPageSize(7)
		view := DeriveView(products, f)
		assert.Equal(t, 4, view.TotalPages)
		assert.Len(t, view.Items, 7)
	})

	t.Run("empty result still has one page", func(t *testing.T) {
		f := DefaultFilterState()
		f.SetQuery("nothing matches this")
		f.SetPage(4)
		view := DeriveView(products, f)
		assert.Equal(t, 0, view.TotalCount)
		assert.Equal(t, 1, view.TotalPages)
		assert.Equal(t, 1, view.Page)
		assert.Empty(t, view.Items)
	})
}

func TestDeriveView_PageSizeBoundProperty(t *testing.T) {
	for total := 0; total <= 30; total++ {
		products := manyProducts(total)
		for _, size := range []int{1, 8, 12, 16, 24} {
			for page := 1; page <= 5; page++ {
				f := DefaultFilterState()
				f.SetPageSize(size)
				f.SetPage(page)
				view := DeriveView(products, f)

				require.LessOrEqual(t, len(view.Items), size)
				require.GreaterOrEqual(t, view.TotalPages, 1)
				require.Equal(t, TotalPages(total, size), view.TotalPages)
				require.GreaterOrEqual(t, view.Page, 1)
				require.LessOrEqual(t, view.Page, view.TotalPages)
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 3, TotalPages(17, 8))
	assert.Equal(t, 2, TotalPages(13, -1))
}
