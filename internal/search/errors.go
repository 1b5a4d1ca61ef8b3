package search

import "errors"

var (
	ErrPropertyNotFound = errors.New("imóvel não encontrado")
	ErrCatalogFailed    = errors.New("falha na comunicação com o catálogo")
)
