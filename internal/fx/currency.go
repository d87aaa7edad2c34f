// Package fx holds the historical exchange-rate table and the per-currency
// conversion conventions used to express donation amounts in USD.
package fx

// Direction states how a quoted rate is applied to a local-currency amount
// to obtain USD. FRED quotes some pairs as USD per foreign unit and others
// as foreign units per USD, so the direction differs per currency and must
// be declared here rather than inferred.
type Direction int

const (
	// Multiply: rate is USD per one foreign unit (amount * rate = USD).
	Multiply Direction = iota
	// Divide: rate is foreign units per one USD (amount / rate = USD).
	Divide
)

// BaseCurrency is the unit every amount is normalized to.
const BaseCurrency = "USD"

// CurrencySpec declares one supported currency: its FRED daily series and
// the direction its quotes are applied in.
type CurrencySpec struct {
	Code      string
	Series    string
	Direction Direction
}

// Currencies is the full set of supported foreign currencies. Each entry is
// deliberately spelled out so the multiply/divide direction is reviewable
// against the FRED series definition.
var Currencies = []CurrencySpec{
	{Code: "GBP", Series: "DEXUSUK", Direction: Multiply}, // USD per British Pound
	{Code: "CAD", Series: "DEXCAUS", Direction: Divide},   // Canadian Dollars per USD
	{Code: "AUD", Series: "DEXUSAL", Direction: Multiply}, // USD per Australian Dollar
	{Code: "EUR", Series: "DEXUSEU", Direction: Multiply}, // USD per Euro
	{Code: "SGD", Series: "DEXSIUS", Direction: Divide},   // Singapore Dollars per USD
	{Code: "CHF", Series: "DEXSZUS", Direction: Divide},   // Swiss Francs per USD
}

// CurrencyByCode looks up a supported currency spec.
func CurrencyByCode(code string) (CurrencySpec, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencySpec{}, false
}
