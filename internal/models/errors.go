package models

import "errors"

var (
	ErrQueryRequired = errors.New("query é obrigatória")
	ErrQueryTooLong  = errors.New("query excede o tamanho máximo")
	ErrInvalidPage   = errors.New("página deve ser maior ou igual a 1")
	ErrInvalidSlug   = errors.New("slug não contém identificador do imóvel")
)
