package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// ExchangeRates mapea código de moneda -> tasa expresada como unidades de
// moneda base por 1 unidad de la moneda extranjera. La tasa de la base es
// siempre 1. La tabla es inmutable una vez construida: cada checkout recibe
// la suya de forma explícita en vez de leer estado global.
type ExchangeRates struct {
	rates map[string]decimal.Decimal
}

// NewExchangeRates construye la tabla. La tasa de la moneda base se fuerza a 1
// y las tasas no positivas se descartan.
func NewExchangeRates(rates map[string]decimal.Decimal) ExchangeRates {
	m := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		if rate.IsPositive() {
			m[code] = rate
		}
	}
	m[Base.Code] = decimal.NewFromInt(1)
	return ExchangeRates{rates: m}
}

// DefaultRates son las tasas de fábrica: 250 YER = 1 USD, 66.67 YER = 1 SAR.
func DefaultRates() ExchangeRates {
	return NewExchangeRates(map[string]decimal.Decimal{
		USD.Code: decimal.NewFromInt(250),
		SAR.Code: decimal.NewFromFloat(66.67),
	})
}

// Rate devuelve la tasa de la moneda. Una moneda sin entrada en la tabla es un
// error tipado, no un fallback silencioso a 1: asumir tasa unitaria puede
// mal-preciar una venta completa.
func (r ExchangeRates) Rate(c Currency) (decimal.Decimal, error) {
	rate, ok := r.rates[c.Code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, c.Code)
	}
	return rate, nil
}

// ToDisplay convierte un monto base a la moneda de despliegue: divide por la
// tasa y redondea half-up a los decimales configurados de la moneda.
func (r ExchangeRates) ToDisplay(amountBase decimal.Decimal, c Currency) (decimal.Decimal, error) {
	rate, err := r.Rate(c)
	if err != nil {
		return decimal.Decimal{}, err
	}
	// DivRound redondea half away from zero, que es el half-up de recibos.
	return amountBase.DivRound(rate, c.Decimals), nil
}

// ToBase convierte un monto en moneda de despliegue de vuelta a la base.
func (r ExchangeRates) ToBase(amountDisplay decimal.Decimal, c Currency) (decimal.Decimal, error) {
	rate, err := r.Rate(c)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amountDisplay.Mul(rate), nil
}
