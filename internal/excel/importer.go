package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	SourceColumn   string // Column with the source-language text
	TargetColumn   string // Column with the translation
	ExamplesColumn string // Column with example sentences
	CategoryColumn string // Column with the category
	MnemonicColumn string // Column with the mnemonic hint
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SourceColumn:   "A",
		TargetColumn:   "B",
		ExamplesColumn: "C",
		CategoryColumn: "D",
		MnemonicColumn: "E",
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Added          int
	Duplicates     int
	Errors         []string
}

// ImportFile imports vocabulary cards from an Excel or CSV file into the
// given scope. Rows whose source text already exists in the scope are
// skipped and reported, not treated as failures.
func ImportFile(ctx context.Context, svc *review.Service, scopeID int64, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var fields []models.ItemFields
	var result *ImportResult
	var err error

	if ext == ".csv" {
		fields, result, err = readCSV(config)
	} else {
		fields, result, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	out, err := svc.ImportItems(ctx, scopeID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to import items: %v", err)
	}
	result.Added = len(out.Added)
	result.Duplicates = len(out.Duplicates)
	return result, nil
}

// readExcel extracts card fields from an Excel sheet
func readExcel(config ImportConfig) ([]models.ItemFields, *ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	var fields []models.ItemFields

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		rf, err := rowFields(row, config)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		fields = append(fields, rf)
	}
	return fields, result, nil
}

// readCSV extracts card fields from a CSV file with the same column
// layout as the Excel path.
func readCSV(config ImportConfig) ([]models.ItemFields, *ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	var fields []models.ItemFields
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		rf, err := rowFields(row, config)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		fields = append(fields, rf)
	}
	return fields, result, nil
}

// rowFields maps one spreadsheet row onto item fields.
func rowFields(row []string, config ImportConfig) (models.ItemFields, error) {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	f := models.ItemFields{
		SourceText: cell(config.SourceColumn),
		TargetText: cell(config.TargetColumn),
		Examples:   cell(config.ExamplesColumn),
		Category:   cell(config.CategoryColumn),
		Mnemonic:   cell(config.MnemonicColumn),
	}
	if f.SourceText == "" {
		return f, fmt.Errorf("source text cannot be empty")
	}
	if f.TargetText == "" {
		return f, fmt.Errorf("translation cannot be empty")
	}
	return f, nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
