package currency

import (
	"database/sql/driver"
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
)

var ErrInvalidCurrency = errors.New("invalid currency")

var symbols = map[Currency]string{
	CurrencyNGN: "₦",
	CurrencyUSD: "$",
}

var printer = message.NewPrinter(language.English)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

// UnmarshalText rejects unknown currency codes while decoding JSON or config.
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case CurrencyNGN.String():
		return CurrencyNGN, nil
	case CurrencyUSD.String():
		return CurrencyUSD, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// Format renders an amount in minor units, e.g. 500000 NGN -> "₦5,000".
// Whole amounts drop the fraction, zero renders as "Free".
func (c Currency) Format(minor int64) string {
	if minor == 0 {
		return "Free"
	}

	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	major, fraction := minor/100, minor%100
	if fraction == 0 {
		return printer.Sprintf("%s%s%d", sign, symbols[c], major)
	}

	return printer.Sprintf("%s%s%d.%02d", sign, symbols[c], major, fraction)
}
