package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"storefront-service/internal/models"
)

// CatalogBackend is the read side of the backend API
type CatalogBackend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CatalogService holds the last successfully loaded product and category
// lists. Both lists are replaced together or not at all.
type CatalogService struct {
	backend CatalogBackend
	logger  *logrus.Entry

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	loadedAt   time.Time
}

func NewCatalogService(backend CatalogBackend, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		backend: backend,
		logger:  logger.WithField("component", "catalog_service"),
	}
}

// Load fetches products and categories concurrently. On any failure the
// previous lists are kept and the error is returned.
func (s *CatalogService) Load(ctx context.Context) error {
	var products []models.Product
	var categories []models.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.backend.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.backend.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Warn("Catalog load failed, keeping previous data")
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}
	if categories == nil {
		categories = []models.Category{}
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"products":   len(products),
		"categories": len(categories),
	}).Info("Catalog loaded")
	return nil
}

// EnsureLoaded loads the catalog if no load has succeeded yet
func (s *CatalogService) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}
	return s.Load(ctx)
}

// Loaded reports whether a load has succeeded
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// Products returns the current product list. Callers must not modify it.
func (s *CatalogService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Categories returns the current category list. Callers must not modify it.
func (s *CatalogService) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Product looks up a product by id in the current list
func (s *CatalogService) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
