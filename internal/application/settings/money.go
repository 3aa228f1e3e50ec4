package settings

import (
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatMoney muestra amount con el código de moneda y la separación de miles
// del idioma configurado, redondeado a los decimales de efectivo de la moneda.
func FormatMoney(amount decimal.Decimal, r entity.RegionalSettings) string {
	unit, err := currency.ParseISO(r.Currency)
	if err != nil {
		unit = currency.IDR
	}
	tag, err := language.Parse(r.Language)
	if err != nil {
		tag = language.Indonesian
	}
	scale, _ := currency.Cash.Rounding(unit)
	f, _ := amount.Round(int32(scale)).Float64()
	p := message.NewPrinter(tag)
	return p.Sprintf("%s %v", unit.String(), number.Decimal(f, number.Scale(scale)))
}

var dateLayouts = map[string]string{
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY-MM-DD": "2006-01-02",
}

// FormatDate muestra t con el formato de fecha configurado (DD/MM/YYYY si no se reconoce).
func FormatDate(t time.Time, r entity.RegionalSettings) string {
	layout, ok := dateLayouts[r.DateFormat]
	if !ok {
		layout = dateLayouts["DD/MM/YYYY"]
	}
	return t.Format(layout)
}
