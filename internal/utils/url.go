package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// PropertyPathPrefix é o prefixo das páginas de imóvel
const PropertyPathPrefix = "/imovel/"

// PropertyURL monta o endereço canônico da página do imóvel.
// Sem baseURL o resultado é apenas o caminho.
func PropertyURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + PropertyPathPrefix + url.PathEscape(slug)
}

// SearchURL monta o endereço da página de busca para a query
func SearchURL(baseURL, query string, page int) string {
	values := url.Values{}
	if query != "" {
		values.Set("q", query)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}

	u := strings.TrimRight(baseURL, "/") + "/busca"
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
