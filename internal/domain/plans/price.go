package plans

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatPrice renders a price in Colombian pesos without decimals.
func FormatPrice(price float64) string {
	return copPrinter.Sprintf("$ %d", int64(math.Round(price)))
}
