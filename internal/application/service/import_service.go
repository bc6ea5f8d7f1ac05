package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportProductRow represents a single row from the import file. Fields are
// kept as text; conversion happens in ImportProducts.
type ImportProductRow struct {
	Line           int
	Name           string
	Category       string
	RetailPrice    string
	WholesalePrice string
	Stock          string
	Description    string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes why a row was skipped
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseDelimited reads comma separated rows. Quoted fields may contain commas
// and doubled quotes. A first line containing both "name" and "price" is
// treated as a header.
func ParseDelimited(r io.Reader) ([]ImportProductRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid import file: %v", err))
		}
		records = append(records, record)
	}
	return rowsFromRecords(records), nil
}

// ParseXLSX reads rows from the first sheet of a workbook using the same
// column order as ParseDelimited
func ParseXLSX(r io.Reader) ([]ImportProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid workbook: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid workbook: %v", err))
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []ImportProductRow {
	start := 0
	if len(records) > 0 && isHeader(records[0]) {
		start = 1
	}

	rows := make([]ImportProductRow, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if blank(rec) {
			continue
		}
		rows = append(rows, ImportProductRow{
			Line:           i + 1,
			Name:           field(rec, 0),
			Category:       field(rec, 1),
			RetailPrice:    field(rec, 2),
			WholesalePrice: field(rec, 3),
			Stock:          field(rec, 4),
			Description:    field(rec, 5),
		})
	}
	return rows
}

func isHeader(record []string) bool {
	line := strings.ToLower(strings.Join(record, ","))
	return strings.Contains(line, "name") && strings.Contains(line, "price")
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func field(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

// ImportProducts adds every valid row as a product of shopID, one row at a
// time. Rows without a name or with an invalid retail price are skipped
// and reported. A single activity entry covers the whole import.
func (s *InventoryService) ImportProducts(ctx context.Context, shopID uuid.UUID, rows []ImportProductRow, actor string) (*ImportResult, error) {
	shop, ok := s.store.GetShop(shopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", shopID))
	}

	result := &ImportResult{TotalRows: len(rows)}
	var imported []entity.Product

	for _, row := range rows {
		input, rowErr := importInput(shop.ID, row)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		product := input.product()
		unlock := s.store.Lock(store.StockKey(shop.ID, product.Name))
		s.store.PutProduct(product)
		unlock()
		imported = append(imported, product)
	}

	result.Successful = len(imported)
	result.Failed = len(result.Errors)
	if len(imported) == 0 {
		return result, nil
	}

	entry := newActivity(enum.ActivityAddProducts,
		fmt.Sprintf("Imported %d products", len(imported)),
		actor, &shop, nil)
	s.store.AppendActivity(entry)
	s.store.Persist("import products", func(ctx context.Context, repos *repository.Repositories) error {
		for i := range imported {
			if err := repos.Products.Upsert(ctx, &imported[i]); err != nil {
				return err
			}
		}
		return repos.Activity.Append(ctx, &entry)
	})

	s.log.Info("products imported",
		zap.String("shop", shop.Name),
		zap.Int("imported", result.Successful),
		zap.Int("skipped", result.Failed),
	)
	return result, nil
}

func importInput(shopID uuid.UUID, row ImportProductRow) (*AddProductInput, *ImportRowError) {
	if row.Name == "" {
		return nil, &ImportRowError{Row: row.Line, Field: "name", Message: "Name is required"}
	}
	retail, err := decimal.NewFromString(row.RetailPrice)
	if err != nil || retail.IsNegative() {
		return nil, &ImportRowError{Row: row.Line, Field: "retail_price", Message: fmt.Sprintf("Invalid retail price %q", row.RetailPrice)}
	}
	if !fitsMoneyScale(retail) {
		return nil, &ImportRowError{Row: row.Line, Field: "retail_price", Message: moneyScaleError("retail_price", "Retail price").Message}
	}

	input := &AddProductInput{
		ShopID:      shopID,
		Name:        row.Name,
		Category:    row.Category,
		RetailPrice: retail,
	}
	if wholesale, err := decimal.NewFromString(row.WholesalePrice); err == nil && !wholesale.IsNegative() {
		if !fitsMoneyScale(wholesale) {
			return nil, &ImportRowError{Row: row.Line, Field: "wholesale_price", Message: moneyScaleError("wholesale_price", "Wholesale price").Message}
		}
		input.WholesalePrice = &wholesale
	}
	if stock, err := decimal.NewFromString(row.Stock); err == nil && stock.IsPositive() {
		input.Stock = int(stock.IntPart())
	}
	if row.Description != "" {
		description := row.Description
		input.Description = &description
	}
	return input, nil
}
