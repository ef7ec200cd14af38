package report

import (
	"fmt"
	"io"

	"inventario-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	movementHeader = []string{"Fecha", "Tipo", "Lote", "Producto", "Cantidad", "Responsable"}
	historyHeader  = []string{"Fecha", "Acción", "Entidad", "Clave", "Detalle", "Responsable"}
)

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func WriteMovements(w io.Writer, rows []Row) error {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{r.Date, r.Type, r.Batch, r.Product, r.Quantity, r.Responsible})
	}
	return WriteXLSX(w, "Reportes", movementHeader, data)
}

func WriteHistory(w io.Writer, entries []models.AuditEntry) error {
	data := make([][]any, 0, len(entries))
	for _, e := range entries {
		data = append(data, []any{
			e.CreatedAt.Format(models.DateLayout),
			string(e.Action),
			e.EntityType,
			e.EntityKey,
			e.Description,
			e.UserName,
		})
	}
	return WriteXLSX(w, "Historial", historyHeader, data)
}
