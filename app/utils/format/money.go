package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// FormatPrice renders a price the way catalogue cards and WhatsApp messages
// show it: bare amount then currency code ("5000 XOF"), no digit grouping so
// the text pastes cleanly into chat messages.
func FormatPrice(amount interface{}, currency string) string {
	return PlainPrice(toDecimal(amount)) + " " + currency
}

// FormatMoney renders a grouped amount for dashboard statistics
// ("12 500 XOF").
func FormatMoney(amount interface{}, currency string) string {
	ac := accounting.Accounting{Symbol: currency, Precision: 0, Thousand: " ", Format: "%v %s"}
	return ac.FormatMoneyDecimal(toDecimal(amount))
}

// PlainPrice renders an amount without grouping or trailing zeros.
func PlainPrice(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return amount.StringFixed(0)
	}
	return amount.String()
}

func toDecimal(amount interface{}) decimal.Decimal {
	switch v := amount.(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return parsed
	}
	return decimal.Zero
}
