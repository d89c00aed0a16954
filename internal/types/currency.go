package types

import "strings"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"mad": "DH",
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"cad": "CA$",
	"chf": "CHF",
	"xof": "CFA",
	"tnd": "DT",
	"dzd": "DA",
	"jpy": "¥",
	"krw": "₩",
}

// zeroDecimalCurrencies have no minor unit
var zeroDecimalCurrencies = map[string]bool{
	"jpy": true,
	"krw": true,
	"xof": true,
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return code
}

// GetCurrencyPrecision returns the number of decimals used to display amounts in the currency
func GetCurrencyPrecision(code string) int32 {
	if zeroDecimalCurrencies[strings.ToLower(code)] {
		return 0
	}
	return 2
}
