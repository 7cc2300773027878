package services

import (
	"context"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// AdminBackend is the admin side of the backend API. Every call carries the
// admin's bearer token.
type AdminBackend interface {
	CreateCategory(ctx context.Context, token string, req *models.CreateCategoryRequest) (*models.Category, error)
	CreateProduct(ctx context.Context, token string, req *models.CreateProductRequest) (*models.Product, error)
	UploadQRIS(ctx context.Context, token, filename string, content io.Reader) error
	ListTopupRequests(ctx context.Context, token, status string) ([]models.TopupRequest, error)
	ApproveTopup(ctx context.Context, token, id string) error
	RejectTopup(ctx context.Context, token, id string) error
}

// AdminService runs admin data entry on behalf of an admin session
type AdminService struct {
	backend AdminBackend
	auth    *AuthService
	catalog *CatalogService
	logger  *logrus.Entry
}

func NewAdminService(backend AdminBackend, auth *AuthService, catalogService *CatalogService, logger *logrus.Logger) *AdminService {
	return &AdminService{
		backend: backend,
		auth:    auth,
		catalog: catalogService,
		logger:  logger.WithField("component", "admin_service"),
	}
}

// CreateCategory validates and posts a category, then reloads the catalog
func (s *AdminService) CreateCategory(ctx context.Context, sessionID string, req models.CreateCategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return nil, newValidationError(CodeInvalidInput, "", "name and slug are required")
	}

	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	category, err := s.backend.CreateCategory(ctx, auth.Token, &req)
	if err != nil {
		return nil, err
	}
	s.dataChanged(ctx)
	return category, nil
}

// CreateProduct validates and posts a product, then reloads the catalog
func (s *AdminService) CreateProduct(ctx context.Context, sessionID string, req models.CreateProductRequest) (*models.Product, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Price == nil {
		return nil, newValidationError(CodeInvalidInput, "", "title and price are required")
	}
	if *req.Price < 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
		return nil, newValidationError(CodeInvalidInput, "price", "price must be zero or more")
	}

	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.backend.CreateProduct(ctx, auth.Token, &req)
	if err != nil {
		return nil, err
	}
	s.dataChanged(ctx)
	return product, nil
}

// ImportProducts creates one product per valid spreadsheet row. With
// validateOnly nothing is submitted. Row failures are reported in the result
// and never abort the rest of the import.
func (s *AdminService) ImportProducts(ctx context.Context, sessionID, filename string, file io.Reader, validateOnly bool) (*ImportResult, error) {
	format, err := DetectImportFormat(filename)
	if err != nil {
		return nil, err
	}

	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := ParseImportFile(format, file)
	if err != nil {
		return nil, newValidationError("PARSE_ERROR", "file", err.Error())
	}
	if len(rows) == 0 {
		return nil, newValidationError("EMPTY_FILE", "file", "The file contains no data rows")
	}

	valid, rowErrors := validateImportRows(rows)
	result := &ImportResult{
		ImportID:     uuid.New().String(),
		ValidateOnly: validateOnly,
		TotalRows:    len(rows),
		Errors:       rowErrors,
		CreatedIDs:   make([]string, 0),
	}

	if validateOnly {
		result.Success = len(rowErrors) == 0
		result.SuccessCount = len(valid)
		result.FailedCount = result.TotalRows - len(valid)
		return result, nil
	}

	for _, pr := range valid {
		req := pr.request
		product, err := s.backend.CreateProduct(ctx, auth.Token, &req)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     pr.row,
				Code:    "CREATE_FAILED",
				Message: err.Error(),
			})
			continue
		}
		result.SuccessCount++
		if product != nil && product.ID != "" {
			result.CreatedIDs = append(result.CreatedIDs, product.ID)
		}
	}

	result.FailedCount = result.TotalRows - result.SuccessCount
	result.Success = result.SuccessCount > 0

	s.logger.WithFields(logrus.Fields{
		"import_id": result.ImportID,
		"total":     result.TotalRows,
		"created":   result.SuccessCount,
		"failed":    result.FailedCount,
	}).Info("Product import finished")

	if result.SuccessCount > 0 {
		s.dataChanged(ctx)
	}
	return result, nil
}

// UploadQRIS replaces the payment QR image
func (s *AdminService) UploadQRIS(ctx context.Context, sessionID, filename string, content io.Reader) error {
	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.backend.UploadQRIS(ctx, auth.Token, filename, content)
}

// ListTopupRequests lists top-ups, optionally by status
func (s *AdminService) ListTopupRequests(ctx context.Context, sessionID, status string) ([]models.TopupRequest, error) {
	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	requests, err := s.backend.ListTopupRequests(ctx, auth.Token, status)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.TopupRequest{}
	}
	return requests, nil
}

func (s *AdminService) ApproveTopup(ctx context.Context, sessionID, id string) error {
	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.backend.ApproveTopup(ctx, auth.Token, id)
}

func (s *AdminService) RejectTopup(ctx context.Context, sessionID, id string) error {
	auth, err := s.auth.RequireAdmin(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.backend.RejectTopup(ctx, auth.Token, id)
}

// dataChanged refreshes the catalog after a successful write. A failed
// reload keeps the previous lists and does not fail the write.
func (s *AdminService) dataChanged(ctx context.Context) {
	if err := s.catalog.Load(ctx); err != nil {
		s.logger.WithError(err).Warn("Catalog reload after admin change failed")
	}
}
