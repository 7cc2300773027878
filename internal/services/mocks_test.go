package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// MockBackend is a mock implementation of every backend interface the services use
type MockBackend struct {
	mock.Mock
}

var (
	_ CatalogBackend = (*MockBackend)(nil)
	_ OrderBackend   = (*MockBackend)(nil)
	_ AuthBackend    = (*MockBackend)(nil)
	_ AdminBackend   = (*MockBackend)(nil)
)

func (m *MockBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockBackend) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockBackend) CreateOrder(ctx context.Context, order *models.OrderSubmission) (*models.OrderReceipt, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderReceipt), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

func (m *MockBackend) CreateCategory(ctx context.Context, token string, req *models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockBackend) CreateProduct(ctx context.Context, token string, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockBackend) UploadQRIS(ctx context.Context, token, filename string, content io.Reader) error {
	args := m.Called(ctx, token, filename, content)
	return args.Error(0)
}

func (m *MockBackend) ListTopupRequests(ctx context.Context, token, status string) ([]models.TopupRequest, error) {
	args := m.Called(ctx, token, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopupRequest), args.Error(1)
}

func (m *MockBackend) ApproveTopup(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockBackend) RejectTopup(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of OrderPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, sessionID string, receipt *models.OrderReceipt, order *models.OrderSubmission) error {
	args := m.Called(ctx, sessionID, receipt, order)
	return args.Error(0)
}

// Helper to build a logger that writes nowhere
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Helper to build a session manager over an in-memory store
func newTestSessions() (*SessionManager, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewSessionManager(store, testLogger()), store
}

func priced(id, title string, price float64) models.Product {
	return models.Product{ID: id, Title: title, Price: models.Float64Ptr(price), Category: "umum"}
}

func testProducts() []models.Product {
	soldOut := priced("p4", "Madu Hutan", 90000)
	inStock := false
	soldOut.InStock = &inStock
	return []models.Product{
		priced("p1", "Beras 5kg", 10000),
		priced("p2", "Minyak Goreng", 20000),
		priced("p3", "Gula Pasir", 30000),
		soldOut,
	}
}

func testCategories() []models.Category {
	return []models.Category{{ID: "c1", Name: "Umum", Slug: "umum"}}
}

// Helper to build a loaded catalog service
func newLoadedCatalog(backend *MockBackend) *CatalogService {
	backend.On("ListProducts", mock.Anything).Return(testProducts(), nil)
	backend.On("ListCategories", mock.Anything).Return(testCategories(), nil)
	svc := NewCatalogService(backend, testLogger())
	if err := svc.Load(context.Background()); err != nil {
		panic(err)
	}
	return svc
}
