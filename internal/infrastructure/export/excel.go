// Package export genera archivos descargables (XLSX) con excelize.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/customers"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/xuri/excelize/v2"
)

var _ customers.Exporter = (*ExcelExporter)(nil)

const customersSheet = "Clientes"

var customerColumns = []string{
	"Nombre", "Teléfono", "Email", "Género", "Fecha de nacimiento",
	"Visitas", "Total gastado (IDR)", "Última visita", "Alta", "Segmentos",
}

// ExcelExporter exporta listados a XLSX.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Customers una fila por cliente bajo una cabecera fija, con filtro y panel congelado.
func (e *ExcelExporter) Customers(_ context.Context, items []dto.CustomerView, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", customersSheet); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo de cabecera: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("export: estilo de moneda: %w", err)
	}

	if err := f.SetSheetRow(customersSheet, "A1", &customerColumns); err != nil {
		return nil, fmt.Errorf("export: cabecera: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(customerColumns), 1)
	_ = f.SetCellStyle(customersSheet, "A1", last, headerStyle)

	for i, c := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		spent, _ := c.TotalSpent.Float64()
		row := []any{
			c.Name, c.Phone, c.Email, c.Gender, dateOrEmpty(c.BirthDate),
			c.TotalVisits, spent, dateOrEmpty(c.LastVisitAt), c.CreatedAt.Format("2006-01-02"),
			strings.Join(c.Segments, ", "),
		}
		if err := f.SetSheetRow(customersSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
		moneyCell, _ := excelize.CoordinatesToCellName(7, i+2)
		_ = f.SetCellStyle(customersSheet, moneyCell, moneyCell, moneyStyle)
	}

	_ = f.SetColWidth(customersSheet, "A", "A", 28)
	_ = f.SetColWidth(customersSheet, "B", "C", 22)
	_ = f.SetColWidth(customersSheet, "J", "J", 24)
	_ = f.SetPanes(customersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if len(items) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(customerColumns), len(items)+1)
		_ = f.AutoFilter(customersSheet, "A1:"+end, nil)
	}
	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "Clientes",
		Created: generatedAt.UTC().Format(time.RFC3339),
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
