package finance

import (
	"fmt"
	"math"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders money and percentages for user-facing text.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter returns a Formatter for the given locale and currency.
func NewFormatter(lang language.Tag, unit currency.Unit) *Formatter {
	return &Formatter{printer: message.NewPrinter(lang), unit: unit}
}

// NewFormatterFromConfig parses a BCP 47 locale and an ISO 4217 code.
// Unknown values fall back to pt-BR and BRL.
func NewFormatterFromConfig(locale, code string) *Formatter {
	lang, err := language.Parse(locale)
	if err != nil {
		lang = language.BrazilianPortuguese
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.BRL
	}
	return NewFormatter(lang, unit)
}

// DefaultFormatter formats Brazilian reais in pt-BR.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.BrazilianPortuguese, currency.BRL)
}

// Money formats d with the currency symbol and two decimals.
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.printer.Sprintf("%v %v", currency.Symbol(f.unit), number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Percent formats v (already in percent) without decimals.
func (f *Formatter) Percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// Date formats d as DD/MM/YYYY.
func (f *Formatter) Date(d models.Date) string {
	return d.Time().Format("02/01/2006")
}

// roundInt rounds half up, matching the rounding used for every score.
func roundInt(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ratio returns num/den as a float, or zero when den is not positive.
func ratio(num, den decimal.Decimal) float64 {
	if !den.IsPositive() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}
