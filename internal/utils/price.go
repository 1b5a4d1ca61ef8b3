package utils

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPriceShort formata preços de forma abreviada
// Exemplos: 1500000 -> "R$ 1,5M", 2000000 -> "R$ 2M", 300000 -> "R$ 300k", 950 -> "R$ 950"
func FormatPriceShort(value float64) string {
	switch {
	case value >= 1_000_000:
		return "R$ " + decimalComma(strconv.FormatFloat(value/1_000_000, 'f', 1, 64)) + "M"
	case value >= 1_000:
		k := strconv.FormatFloat(value/1_000, 'f', 0, 64)
		if k == "1000" {
			return "R$ 1M"
		}
		return "R$ " + k + "k"
	}
	return FormatPriceFull(value)
}

// FormatPriceFull formata o preço com separador de milhar
// Exemplo: 1500000 -> "R$ 1.500.000"
func FormatPriceFull(value float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return "R$ " + p.Sprintf("%d", int64(value+0.5))
}

func decimalComma(s string) string {
	s = strings.TrimSuffix(s, ".0")
	return strings.Replace(s, ".", ",", 1)
}
