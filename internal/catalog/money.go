package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders money amounts for API output, e.g. $1,234.50
type Formatter struct {
	Symbol string
}

func NewFormatter(symbol string) Formatter {
	return Formatter{Symbol: symbol}
}

// Format rounds to cents and groups the whole part with English CLDR rules.
// The whole part goes through the printer as an int64 so large prices are
// not rounded through a float.
func (f Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	abs := rounded.Abs()

	_, frac, _ := strings.Cut(abs.StringFixed(2), ".")
	p := message.NewPrinter(language.English)
	return sign + f.Symbol + p.Sprint(number.Decimal(abs.IntPart())) + "." + frac
}
