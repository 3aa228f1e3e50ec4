// Package pdf genera el comprobante impreso de las reservas walk-in.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Negocio + teléfono  │  N° de reserva │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: Nombre + teléfono                   │
//	│  CITA: Fecha / Hora / Servicio / Staff / Sede │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL                                        │
//	│  ───────────────────────────────────────────  │
//	│  FOOTER: QR con el id + leyenda               │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/walkin"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa walkin.SlipRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ walkin.SlipRenderer = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// BookingSlip genera el comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) BookingSlip(_ context.Context, slip dto.BookingSlip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de reserva "+slip.BookingID, true).
		WithAuthor(slip.BusinessName, true).
		WithCreationDate(slip.IssuedAt).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(slip))
	for _, r := range appointmentRows(slip) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(slip))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(slip) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: negocio (izq) y número de reserva + emisión (der).
func headerRow(slip dto.BookingSlip) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(slip.BusinessName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Tel: "+nonEmpty(slip.BusinessPhone, "-"), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RESERVA WALK-IN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(slip.BookingID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 6,
			}),
			text.New("Emitido: "+slip.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente presente.
func customerRow(slip dto.BookingSlip) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(slip.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New("Tel: "+nonEmpty(slip.CustomerPhone, "-"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
	)
}

// appointmentRows: una fila etiqueta/valor por dato de la cita, más las notas.
func appointmentRows(slip dto.BookingSlip) []core.Row {
	field := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(4).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(8).Add(text.New(nonEmpty(value, "-"), props.Text{
				Size: 8, Top: 1,
			})),
		)
	}
	outlet := slip.OutletName
	if slip.OutletAddress != "" {
		outlet += " · " + slip.OutletAddress
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("CITA", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
		field("Fecha", slip.Date),
		field("Hora", slip.StartTime+" - "+slip.EndTime),
		field("Servicio", slip.ServiceName),
		field("Profesional", slip.StaffName),
		field("Sede", outlet),
	}
	if slip.Notes != "" {
		for i, chunk := range splitEvery(slip.Notes, 60) {
			label := ""
			if i == 0 {
				label = "Notas"
			}
			rows = append(rows, row.New(5).Add(
				col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
				col.New(8).Add(text.New(chunk, props.Text{Size: 7.5, Top: 1, Color: colorGray})),
			))
		}
	}
	return rows
}

// totalRow: precio del servicio ya formateado según la configuración regional.
func totalRow(slip dto.BookingSlip) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(nonEmpty(slip.Price, "-"), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: QR con el id de la reserva y leyenda.
func footerRows(slip dto.BookingSlip) []core.Row {
	return []core.Row{
		row.New(32).Add(
			col.New(4).Add(code.NewQr(slip.BookingID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Presente este comprobante en recepción.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Para reprogramar o cancelar comuníquese con el negocio.", props.Text{
					Size: 7, Top: 12, Left: 3, Color: colorGray,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
