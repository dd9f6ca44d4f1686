package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer agrupa miles con coma ("1,234,567") para recibos y reportes.
var printer = message.NewPrinter(language.English)

// Format convierte un monto base a la moneda indicada y lo renderiza con su
// símbolo: la base como entero ("1,235 ر.ي"), las extranjeras con sus
// decimales fijos ("$6.00"). Retorna error si la moneda no tiene tasa.
func Format(amountBase decimal.Decimal, c Currency, rates ExchangeRates) (string, error) {
	converted, err := rates.ToDisplay(amountBase, c)
	if err != nil {
		return "", err
	}
	return FormatDisplay(converted, c), nil
}

// FormatDisplay renderiza un monto ya convertido a la moneda indicada,
// redondeado half-up a sus decimales. El signo negativo se preserva.
func FormatDisplay(amount decimal.Decimal, c Currency) string {
	digits := groupDigits(amount, c.Decimals)
	if c == Base {
		return digits + " " + c.Symbol
	}
	return c.Symbol + digits
}

// FormatBase renderiza un monto en moneda base como unidades enteras.
func FormatBase(amountBase decimal.Decimal) string {
	return FormatDisplay(amountBase, Base)
}

// groupDigits redondea half-up a `decimals` y agrupa la parte entera en miles.
func groupDigits(amount decimal.Decimal, decimals int32) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().Round(decimals).StringFixed(decimals)

	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i+1:]
	}
	grouped := intPart
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	}
	out := grouped
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
