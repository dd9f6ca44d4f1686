package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tasas y conversión
// ──────────────────────────────────────────────────────────────────────────────

// Caso: la tasa de la base es siempre 1, aunque el mapa no la incluya.
func TestRates_BaseSiempreUno(t *testing.T) {
	rates := money.NewExchangeRates(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(250),
	})
	rate, err := rates.Rate(money.YER)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

// Caso: una moneda sin tasa es error tipado, nunca fallback a 1.
func TestRates_MonedaSinTasaEsError(t *testing.T) {
	rates := money.NewExchangeRates(map[string]decimal.Decimal{})
	_, err := rates.Rate(money.USD)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	_, err = rates.ToDisplay(decimal.NewFromInt(1000), money.USD)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

// Caso: las tasas no positivas se descartan al construir la tabla.
func TestRates_TasaNoPositivaSeDescarta(t *testing.T) {
	rates := money.NewExchangeRates(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(-5),
		"SAR": decimal.Zero,
	})
	_, err := rates.Rate(money.USD)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
	_, err = rates.Rate(money.SAR)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

// Caso: 1500 YER a 250 por USD son exactamente 6.00 USD.
func TestToDisplay_ConversionExacta(t *testing.T) {
	rates := money.DefaultRates()
	got, err := rates.ToDisplay(decimal.NewFromInt(1500), money.USD)
	require.NoError(t, err)
	assert.Equal(t, "6.00", got.StringFixed(2))
}

// Caso: el redondeo a decimales de la moneda es half-up.
// 1000 / 66.67 = 14.9992... -> 15.00 SAR; 333 / 250 = 1.332 -> 1.33 USD;
// 306.25 / 250 = 1.225 -> 1.23 USD (el medio sube).
func TestToDisplay_RedondeoHalfUp(t *testing.T) {
	rates := money.DefaultRates()

	sar, err := rates.ToDisplay(decimal.NewFromInt(1000), money.SAR)
	require.NoError(t, err)
	assert.Equal(t, "15.00", sar.StringFixed(2))

	usd, err := rates.ToDisplay(decimal.NewFromInt(333), money.USD)
	require.NoError(t, err)
	assert.Equal(t, "1.33", usd.StringFixed(2))

	half, err := rates.ToDisplay(decimal.NewFromFloat(306.25), money.USD)
	require.NoError(t, err)
	assert.Equal(t, "1.23", half.StringFixed(2))
}

// Caso: ida y vuelta con montos exactos no pierde valor.
func TestToBase_RoundTripExacto(t *testing.T) {
	rates := money.DefaultRates()
	display, err := rates.ToDisplay(decimal.NewFromInt(1500), money.USD)
	require.NoError(t, err)
	back, err := rates.ToBase(display, money.USD)
	require.NoError(t, err)
	assert.True(t, back.Equal(decimal.NewFromInt(1500)), "1500 YER -> USD -> YER debe volver exacto, fue %s", back)
}

// ──────────────────────────────────────────────────────────────────────────────
// Formateo
// ──────────────────────────────────────────────────────────────────────────────

// Caso: la base se muestra como entero con separador de miles y símbolo al final.
func TestFormat_MonedaBase(t *testing.T) {
	rates := money.DefaultRates()
	got, err := money.Format(decimal.NewFromFloat(1234.5), money.YER, rates)
	require.NoError(t, err)
	assert.Equal(t, "1,235 ر.ي", got)
}

// Caso: las extranjeras llevan el símbolo como prefijo y sus decimales fijos.
func TestFormat_MonedaExtranjera(t *testing.T) {
	rates := money.DefaultRates()
	got, err := money.Format(decimal.NewFromInt(1500), money.USD, rates)
	require.NoError(t, err)
	assert.Equal(t, "$6.00", got)
}

// Caso: agrupación de miles en montos grandes.
func TestFormat_SeparadorDeMiles(t *testing.T) {
	assert.Equal(t, "1,234,567 ر.ي", money.FormatBase(decimal.NewFromInt(1234567)))
}

// Caso: los negativos preservan el signo delante de los dígitos.
func TestFormat_Negativo(t *testing.T) {
	got := money.FormatDisplay(decimal.NewFromFloat(-1234.5), money.YER)
	assert.Equal(t, "-1,235 ر.ي", got)
}

// Caso: FromCode no inventa monedas.
func TestFromCode(t *testing.T) {
	c, ok := money.FromCode("USD")
	require.True(t, ok)
	assert.Equal(t, "USD", c.Code)

	_, ok = money.FromCode("EUR")
	assert.False(t, ok)
}
