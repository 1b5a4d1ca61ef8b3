package models

import "time"

// PropertyType é o tipo canônico do imóvel, como gravado no catálogo
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "Casa"
	PropertyTypeApartment PropertyType = "Apartamento"
	PropertyTypeLand      PropertyType = "Terreno"
	PropertyTypeRoom      PropertyType = "Sala"
	PropertyTypeStore     PropertyType = "Loja"
	PropertyTypeStudio    PropertyType = "Kitnet"
	PropertyTypeFarm      PropertyType = "Chácara"
)

// TransactionType define se o imóvel está à venda ou para alugar
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// Label retorna o rótulo exibido ao usuário
func (t TransactionType) Label() string {
	switch t {
	case TransactionSale:
		return "Venda"
	case TransactionRent:
		return "Aluguel"
	}
	return string(t)
}

// PropertyStatus indica se o anúncio está publicado
type PropertyStatus string

const (
	StatusActive   PropertyStatus = "active"
	StatusInactive PropertyStatus = "inactive"
)

// Property representa um imóvel do catálogo.
// Price, Bedrooms e Area com valor zero significam "não informado".
type Property struct {
	ID              int64           `json:"id"`
	Type            PropertyType    `json:"type"`
	TransactionType TransactionType `json:"transaction_type"`
	Price           float64         `json:"price"`
	Bedrooms        int             `json:"bedrooms,omitempty"`
	Area            float64         `json:"area,omitempty"`
	City            string          `json:"city"`
	Neighborhood    string          `json:"neighborhood"`
	Address         string          `json:"address"`
	Title           string          `json:"title"`
	Images          []string        `json:"images"`
	Features        []string        `json:"features"`
	Description     string          `json:"description"`
	Status          PropertyStatus  `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsActive indica se o imóvel pode ser exibido
func (p *Property) IsActive() bool {
	return p.Status == StatusActive
}
