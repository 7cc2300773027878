package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
)

// CatalogPage is what a session sees when it browses the catalog
type CatalogPage struct {
	View            catalog.View        `json:"view"`
	Categories      []models.Category   `json:"categories"`
	Filters         catalog.FilterState `json:"filters"`
	Query           string              `json:"query"`
	PageSizeOptions []int               `json:"pageSizeOptions"`
	CartLineCount   int                 `json:"cartLineCount"`
}

// StorefrontService runs the browse and cart actions of a session
type StorefrontService struct {
	sessions        *SessionManager
	catalog         *CatalogService
	calculator      *pricing.Calculator
	pageSizeOptions []int
	logger          *logrus.Entry
}

func NewStorefrontService(
	sessions *SessionManager,
	catalogService *CatalogService,
	calculator *pricing.Calculator,
	pageSizeOptions []int,
	logger *logrus.Logger,
) *StorefrontService {
	return &StorefrontService{
		sessions:        sessions,
		catalog:         catalogService,
		calculator:      calculator,
		pageSizeOptions: pageSizeOptions,
		logger:          logger.WithField("component", "storefront_service"),
	}
}

// Catalog derives the session's current page. A page number that no longer
// exists is clamped and the clamped value is stored back.
func (s *StorefrontService) Catalog(ctx context.Context, sessionID string) (*CatalogPage, error) {
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	return s.page(ctx, session), nil
}

func (s *StorefrontService) page(ctx context.Context, session *Session) *CatalogPage {
	view := catalog.DeriveView(s.catalog.Products(), session.Filters)
	if view.Page != session.Filters.Page {
		session.Filters.SetPage(view.Page)
		s.sessions.SaveFilters(ctx, session)
	}

	return &CatalogPage{
		View:            view,
		Categories:      s.catalog.Categories(),
		Filters:         session.Filters,
		Query:           session.Filters.Encode(),
		PageSizeOptions: s.pageSizeOptions,
		CartLineCount:   session.Cart.LineCount(),
	}
}

// SeedFilters replaces the session's filters with the ones encoded in rawQuery
func (s *StorefrontService) SeedFilters(ctx context.Context, sessionID, rawQuery string) (*CatalogPage, error) {
	return s.mutateFilters(ctx, sessionID, func(f *catalog.FilterState) {
		*f = catalog.ParseRawQuery(rawQuery)
	})
}

// UpdateFilters applies a partial change to the session's filters
func (s *StorefrontService) UpdateFilters(ctx context.Context, sessionID string, patch catalog.FilterPatch) (*CatalogPage, error) {
	return s.mutateFilters(ctx, sessionID, func(f *catalog.FilterState) {
		f.Apply(patch)
	})
}

// ResetFilters restores the default filters
func (s *StorefrontService) ResetFilters(ctx context.Context, sessionID string) (*CatalogPage, error) {
	return s.mutateFilters(ctx, sessionID, func(f *catalog.FilterState) {
		f.Reset()
	})
}

func (s *StorefrontService) mutateFilters(ctx context.Context, sessionID string, mutate func(f *catalog.FilterState)) (*CatalogPage, error) {
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	mutate(&session.Filters)
	s.sessions.SaveFilters(ctx, session)

	return s.page(ctx, session), nil
}

// Cart summarises the session's cart. A nil coupon means the session's last coupon.
func (s *StorefrontService) Cart(ctx context.Context, sessionID string, coupon *string) *models.CartSummary {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	return s.summary(s.sessions.Load(ctx, sessionID), coupon)
}

// Totals prices the session's cart. A nil coupon means the session's last coupon.
func (s *StorefrontService) Totals(ctx context.Context, sessionID string, coupon *string) models.Totals {
	return s.Cart(ctx, sessionID, coupon).Totals
}

func (s *StorefrontService) summary(session *Session, coupon *string) *models.CartSummary {
	code := session.Coupon
	if coupon != nil {
		code = *coupon
	}
	lines := session.Cart.Lines()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return &models.CartSummary{
		Lines:     lines,
		LineCount: session.Cart.LineCount(),
		ItemCount: session.Cart.ItemCount(),
		Coupon:    code,
		Totals:    s.calculator.ComputeTotals(session.Cart.Subtotal(), code),
	}
}

// AddToCart adds one unit of a catalog product
func (s *StorefrontService) AddToCart(ctx context.Context, sessionID, productID string) (*models.CartSummary, error) {
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	product, ok := s.catalog.Product(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	if !product.Available() {
		return nil, ErrOutOfStock
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	session.Cart.AddOne(product)
	s.sessions.SaveCart(ctx, session)

	return s.summary(session, nil), nil
}

// SetCartQuantity sets the absolute quantity of a line. Zero or less removes
// the line. Raising the quantity of a product marked out of stock is refused;
// lowering it is always allowed.
func (s *StorefrontService) SetCartQuantity(ctx context.Context, sessionID, productID string, qty int) (*models.CartSummary, error) {
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	current := session.Cart.Quantity(productID)

	product, known := s.catalog.Product(productID)
	if qty > current {
		if known && !product.Available() {
			return nil, ErrOutOfStock
		}
		if !known {
			line, inCart := session.Cart.Line(productID)
			if !inCart {
				return nil, ErrProductNotFound
			}
			product = productFromLine(line)
		}
	} else if !known {
		product = models.Product{ID: productID}
	}

	if session.Cart.SetQuantity(product, qty) {
		s.sessions.SaveCart(ctx, session)
	}
	return s.summary(session, nil), nil
}

// RemoveFromCart drops a line. Removing an absent line is a no-op.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, sessionID, productID string) *models.CartSummary {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	if session.Cart.Remove(productID) {
		s.sessions.SaveCart(ctx, session)
	}
	return s.summary(session, nil)
}

// SetCoupon stores the session's coupon without pricing anything
func (s *StorefrontService) SetCoupon(ctx context.Context, sessionID, coupon string) *models.CartSummary {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	session.Coupon = pricing.NormalizeCode(coupon)
	s.sessions.SaveCoupon(ctx, session)
	return s.summary(session, nil)
}

// Reload refetches the catalog
func (s *StorefrontService) Reload(ctx context.Context) error {
	return s.catalog.Load(ctx)
}

func productFromLine(line models.CartLine) models.Product {
	price := line.Price
	return models.Product{
		ID:    line.ProductID,
		Title: line.Title,
		Price: &price,
		Image: line.Image,
	}
}
