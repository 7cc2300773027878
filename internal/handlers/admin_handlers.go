package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// CreateCategory creates a category
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	category, err := h.admin.CreateCategory(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Data: category})
}

// CreateProduct creates a product
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/products [post]
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	product, err := h.admin.CreateProduct(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Data: product})
}

// GetImportTemplate returns the product import template definition or file
// @Summary Product import template
// @Tags admin
// @Produce json,text/csv
// @Param format query string false "json, csv or xlsx"
// @Success 200 {object} services.ImportTemplate
// @Router /admin/products/import/template [get]
func (h *AdminHandler) GetImportTemplate(c *gin.Context) {
	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")
		if err := services.WriteCSVTemplate(c.Writer); err != nil {
			c.Error(err)
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
		if err := services.WriteXLSXTemplate(c.Writer); err != nil {
			c.Error(err)
		}
	default:
		ok(c, services.ProductImportTemplate())
	}
}

// ImportProducts imports products from a CSV or Excel file
// @Summary Import products
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param validateOnly formData bool false "Only validate rows"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/products/import [post]
func (h *AdminHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	result, err := h.admin.ImportProducts(c.Request.Context(), middleware.GetSessionID(c), header.Filename, file, validateOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadQRIS replaces the payment QR image
// @Summary Upload QRIS image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "QR image"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/settings/qris [post]
func (h *AdminHandler) UploadQRIS(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "FILE_REQUIRED", "Please upload an image")
		return
	}
	defer file.Close()

	if err := h.admin.UploadQRIS(c.Request.Context(), middleware.GetSessionID(c), header.Filename, file); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: models.StringPtr("QRIS updated")})
}

// ListTopupRequests lists balance top-ups
// @Summary List top-up requests
// @Tags admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} models.Response
// @Router /admin/topup-requests [get]
func (h *AdminHandler) ListTopupRequests(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	requests, err := h.admin.ListTopupRequests(c.Request.Context(), middleware.GetSessionID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, requests)
}

// ApproveTopup approves a top-up
// @Summary Approve a top-up
// @Tags admin
// @Produce json
// @Param id path string true "Top-up ID"
// @Success 200 {object} models.Response
// @Router /admin/topup-requests/{id}/approve [post]
func (h *AdminHandler) ApproveTopup(c *gin.Context) {
	if err := h.admin.ApproveTopup(c.Request.Context(), middleware.GetSessionID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true})
}

// RejectTopup rejects a top-up
// @Summary Reject a top-up
// @Tags admin
// @Produce json
// @Param id path string true "Top-up ID"
// @Success 200 {object} models.Response
// @Router /admin/topup-requests/{id}/reject [post]
func (h *AdminHandler) RejectTopup(c *gin.Context) {
	if err := h.admin.RejectTopup(c.Request.Context(), middleware.GetSessionID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true})
}
