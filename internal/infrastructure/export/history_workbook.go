// Package export genera el archivo XLSX descargable del historial de movimientos.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	appinventory "github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

var _ appinventory.HistoryExporter = (*Workbook)(nil)

const (
	sheetName  = "Historial"
	dateFormat = "2006-01-02 15:04"
)

var headers = []any{
	"Fecha", "Referencia", "Tipo", "Producto", "Cantidad", "Acción",
	"Origen", "Destino", "Estado", "Eliminado", "Versiones", "Observaciones",
}

// Workbook exportador XLSX (excelize).
type Workbook struct{}

// NewWorkbook construye el exportador.
func NewWorkbook() *Workbook { return &Workbook{} }

// HistoryWorkbook una fila por registro, en el mismo orden en que se muestran.
func (w *Workbook) HistoryWorkbook(rows []entity.MovementRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("export: encabezados: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastCol, bold); err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}

	for i := range rows {
		r := appinventory.ToRowDTO(&rows[i])
		date := ""
		if r.Date != nil {
			date = r.Date.Format(dateFormat)
		}
		deleted := "No"
		if r.IsDeleted {
			deleted = "Sí"
		}
		versions := 1
		if r.VersionCount > 0 {
			versions = r.VersionCount
		}
		values := []any{
			date,
			r.ReferenceNumber,
			r.TypeLabel,
			r.ProductName,
			fmt.Sprintf("%s%d", r.QuantityPrefix, r.Quantity),
			r.Action,
			r.From,
			r.To,
			r.Status,
			deleted,
			versions,
			r.Remarks,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
