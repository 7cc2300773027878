package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"storefront-service/internal/models"
)

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	ImportID     string           `json:"importId"`
	Success      bool             `json:"success"`
	ValidateOnly bool             `json:"validateOnly"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "title", Description: "Product name", Required: true, Type: "string", Example: "Apel Fuji 1kg"},
			{Name: "price", Description: "Price, zero or more", Required: true, Type: "number", Example: "25000"},
			{Name: "description", Description: "Short description", Required: false, Type: "string", Example: "Apel segar impor"},
			{Name: "category", Description: "Category slug (a name is turned into a slug)", Required: false, Type: "string", Example: "buah"},
			{Name: "image", Description: "Product image URL", Required: false, Type: "string", Example: "https://example.com/apel.jpg"},
		},
		SampleData: []map[string]string{
			{
				"title":       "Apel Fuji 1kg",
				"price":       "25000",
				"description": "Apel segar impor",
				"category":    "buah",
				"image":       "https://example.com/apel.jpg",
			},
		},
	}
}

// DetectImportFormat picks the parser from the file name
func DetectImportFormat(filename string) (ImportFormat, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return ImportFormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return ImportFormatXLSX, nil
	default:
		return "", newValidationError("INVALID_FORMAT", "file", "Only CSV and XLSX files are supported")
	}
}

// ParseImportFile reads rows keyed by lower-cased header. Each row carries
// its 1-based spreadsheet line in "_row".
func ParseImportFile(format ImportFormat, file io.Reader) ([]map[string]string, error) {
	if format == ImportFormatXLSX {
		return parseXLSX(file)
	}
	return parseCSV(file)
}

func normalizeHeaders(headers []string) {
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], "*")
		headers[i] = strings.TrimSpace(headers[i])
	}
}

func parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	normalizeHeaders(headers)

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}
		lineNum++

		if blankRecord(record) {
			continue
		}
		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum)
		rows = append(rows, row)
	}

	return rows, nil
}

func parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, fmt.Errorf("file must have a header row")
	}

	headers := excelRows[0]
	normalizeHeaders(headers)

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		if blankRecord(excelRow) {
			continue
		}
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// productRow is a validated import row waiting to be submitted
type productRow struct {
	row     int
	request models.CreateProductRequest
}

// validateImportRows turns raw rows into product requests and row errors
func validateImportRows(rows []map[string]string) ([]productRow, []ImportRowError) {
	var valid []productRow
	errs := make([]ImportRowError, 0)

	template := ProductImportTemplate()

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])
		rowErrors := 0

		for _, col := range template.Columns {
			if col.Required && row[col.Name] == "" {
				errs = append(errs, ImportRowError{
					Row:     rowNum,
					Column:  col.Name,
					Code:    "REQUIRED_FIELD",
					Message: fmt.Sprintf("Required field '%s' is empty", col.Name),
				})
				rowErrors++
			}
		}

		var price float64
		if raw := row["price"]; raw != "" {
			p, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				errs = append(errs, ImportRowError{
					Row:     rowNum,
					Column:  "price",
					Code:    "INVALID_PRICE",
					Message: fmt.Sprintf("Price '%s' is not a number of zero or more", raw),
				})
				rowErrors++
			}
			price = p
		}

		if rowErrors > 0 {
			continue
		}

		category := row["category"]
		if category != "" {
			category = generateSlugFromName(category)
		}

		valid = append(valid, productRow{
			row: rowNum,
			request: models.CreateProductRequest{
				Title:       row["title"],
				Price:       models.Float64Ptr(price),
				Description: row["description"],
				Category:    category,
				Image:       row["image"],
			},
		})
	}

	return valid, errs
}

// WriteCSVTemplate writes the product import template as CSV
func WriteCSVTemplate(w io.Writer) error {
	template := ProductImportTemplate()
	writer := csv.NewWriter(w)

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSXTemplate writes the product import template as an Excel workbook
func WriteXLSXTemplate(w io.Writer) error {
	template := ProductImportTemplate()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	for rowIdx, sample := range template.SampleData {
		for colIdx, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, sample[col.Name])
		}
	}

	return f.Write(w)
}

func generateSlugFromName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
