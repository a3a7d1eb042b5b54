package model

import "strings"

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	AUD Currency = "AUD"
	BGN Currency = "BGN"
	BRL Currency = "BRL"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	CZK Currency = "CZK"
	DKK Currency = "DKK"
	HKD Currency = "HKD"
	HUF Currency = "HUF"
	IDR Currency = "IDR"
	ILS Currency = "ILS"
	INR Currency = "INR"
	ISK Currency = "ISK"
	KRW Currency = "KRW"
	MXN Currency = "MXN"
	MYR Currency = "MYR"
	NOK Currency = "NOK"
	NZD Currency = "NZD"
	PHP Currency = "PHP"
	PLN Currency = "PLN"
	RON Currency = "RON"
	SEK Currency = "SEK"
	SGD Currency = "SGD"
	THB Currency = "THB"
	TRY Currency = "TRY"
	ZAR Currency = "ZAR"
	AED Currency = "AED"
	ARS Currency = "ARS"
	CLP Currency = "CLP"
	SAR Currency = "SAR"
)

var SupportedCurrencies = []Currency{
	USD, EUR, GBP, JPY, AUD, BGN, BRL, CAD, CHF, CNY, CZK, DKK,
	HKD, HUF, IDR, ILS, INR, ISK, KRW, MXN, MYR, NOK, NZD, PHP,
	PLN, RON, SEK, SGD, THB, TRY, ZAR, AED, ARS, CLP, SAR,
}

// RestrictedCurrencies are excluded by policy from both base and quote positions,
// independently of being valid ISO codes.
var RestrictedCurrencies = []Currency{TRY, PLN, THB, MXN}

// Normalize upper-cases a raw code so validation and lookups are case-insensitive.
func Normalize(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

func (c Currency) IsSupported() bool {
	for _, supported := range SupportedCurrencies {
		if c == supported {
			return true
		}
	}
	return false
}

func (c Currency) IsRestricted() bool {
	for _, restricted := range RestrictedCurrencies {
		if c == restricted {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}
