package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"inventario-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// RowError reports a spreadsheet row that was not applied. Row is 1-based,
// as shown by spreadsheet programs.
type RowError struct {
	Row     int    `json:"row"`
	Product string `json:"product"`
	Error   string `json:"error"`
}

type ImportResult struct {
	Applied int           `json:"applied"`
	Created []string      `json:"created"`
	Results []StockResult `json:"results"`
	Errors  []RowError    `json:"errors"`
}

// ImportStockIn reads the first sheet of an XLSX workbook with the columns
// product, quantity, expiry and provider, and applies one stock-in per row.
// A header row is recognised by its first cell and skipped; blank rows are
// ignored. Rows that fail are reported and do not stop the import.
func (s *Service) ImportStockIn(r io.Reader, responsible string) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	res := ImportResult{Created: []string{}, Results: []StockResult{}, Errors: []RowError{}}
	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, 0)
		if name == "" {
			continue
		}
		qty, err := strconv.Atoi(cell(row, 1))
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Product: name, Error: "cantidad inválida"})
			continue
		}
		out, err := s.StockIn(StockInInput{
			Product:     name,
			Quantity:    qty,
			Expiry:      expiryCell(f, sheets[0], row, i, date1904),
			Provider:    cell(row, 3),
			Notes:       "importación xlsx",
			Responsible: responsible,
		})
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Product: name, Error: err.Error()})
			continue
		}
		res.Applied++
		res.Results = append(res.Results, out)
		if out.Created {
			res.Created = append(res.Created, out.Product.Name)
		}
	}
	return res, nil
}

// expiryCell returns the expiry column as YYYY-MM-DD. Cells typed as dates
// are formatted by the workbook, so their serial number is read instead.
func expiryCell(f *excelize.File, sheet string, row []string, i int, date1904 bool) string {
	text := cell(row, 2)
	if text == "" {
		return ""
	}
	if _, err := time.Parse(models.DateLayout, text); err == nil {
		return text
	}
	ref, err := excelize.CoordinatesToCellName(3, i+1)
	if err != nil {
		return text
	}
	raw, err := f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return text
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return text
	}
	d, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return text
	}
	return d.Format(models.DateLayout)
}

func isHeaderRow(row []string) bool {
	first := strings.ToUpper(cell(row, 0))
	return strings.Contains(first, "PRODUCT") || first == "NOMBRE" || first == "NAME"
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
