// Package money implementa el modelo monetario del punto de venta: monedas
// soportadas, tabla de tasas de cambio y formateo para mostrar en pantalla y
// recibos. Todo monto se almacena en la moneda base (YER); la conversión a
// monedas de despliegue ocurre solo al formatear, nunca al persistir.
package money

// Currency describe una moneda soportada: código ISO, símbolo de despliegue y
// cantidad fija de decimales (la base se muestra en unidades enteras).
type Currency struct {
	Code     string
	Symbol   string
	Decimals int32
}

// Monedas soportadas. YER es la moneda base (tasa 1, 0 decimales).
var (
	YER = Currency{Code: "YER", Symbol: "ر.ي", Decimals: 0}
	USD = Currency{Code: "USD", Symbol: "$", Decimals: 2}
	SAR = Currency{Code: "SAR", Symbol: "ر.س", Decimals: 2}
)

// Base es la moneda en la que se almacenan todos los montos.
var Base = YER

var registry = []Currency{YER, USD, SAR}

// FromCode busca una moneda por su código. El segundo valor indica si existe;
// un código desconocido NO cae de vuelta a la base: el caller decide cómo
// fallar (ver ErrUnknownCurrency en domain).
func FromCode(code string) (Currency, bool) {
	for _, c := range registry {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Currencies devuelve las monedas soportadas en orden estable.
func Currencies() []Currency {
	out := make([]Currency, len(registry))
	copy(out, registry)
	return out
}
