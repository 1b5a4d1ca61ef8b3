package vocabulary

import "github.com/reativa/portal-busca/internal/models"

// TypeMapping associa termos em português a um tipo canônico de imóvel
type TypeMapping struct {
	Type models.PropertyType
	// Terms em ordem de prioridade. Termos compostos vêm antes dos simples.
	Terms []string
}

// defaultAbbreviations contém abreviações informais usadas em anúncios.
// A tabela é plana: nenhum valor pode aparecer como chave.
var defaultAbbreviations = map[string]string{
	// Tipos
	"apto":    "apartamento",
	"aptos":   "apartamentos",
	"ap":      "apartamento",
	"apt":     "apartamento",
	"ape":     "apartamento",
	"apê":     "apartamento",
	"cs":      "casa",
	"terr":    "terreno",
	"kit":     "kitnet",
	"kitnete": "kitnet",

	// Cômodos
	"qto":   "quarto",
	"qtos":  "quartos",
	"dorm":  "dormitório",
	"dorms": "dormitórios",

	// Logradouros e bairros
	"jd":   "jardim",
	"jdm":  "jardim",
	"vl":   "vila",
	"pq":   "parque",
	"res":  "residencial",
	"cond": "condomínio",
	"av":   "avenida",

	// Cidades
	"sp":      "são paulo",
	"rj":      "rio de janeiro",
	"bh":      "belo horizonte",
	"ctba":    "curitiba",
	"cwb":     "curitiba",
	"pg":      "ponta grossa",
	"poa":     "porto alegre",
	"floripa": "florianópolis",

	// Negócio
	"alug": "aluguel",
	"vd":   "venda",

	// Preço
	"max": "máximo",
	"min": "mínimo",
	"ate": "até",
	"mi":  "milhões",
}

// defaultPropertyTypes é consultada em ordem; o primeiro termo encontrado vence.
var defaultPropertyTypes = []TypeMapping{
	{Type: models.PropertyTypeHouse, Terms: []string{"casa", "casas", "sobrado", "sobrados"}},
	{Type: models.PropertyTypeApartment, Terms: []string{"apartamento", "apartamentos", "cobertura", "coberturas", "flat"}},
	{Type: models.PropertyTypeLand, Terms: []string{"terreno", "terrenos", "lote", "lotes"}},
	{Type: models.PropertyTypeRoom, Terms: []string{"sala comercial", "salas comerciais", "sala", "salas"}},
	{Type: models.PropertyTypeStore, Terms: []string{"ponto comercial", "loja", "lojas"}},
	{Type: models.PropertyTypeStudio, Terms: []string{"kitnet", "kitnets", "quitinete", "studio", "estúdio"}},
	{Type: models.PropertyTypeFarm, Terms: []string{"chácara", "chácaras", "chacara", "chacaras"}},
}

// Frases de negócio. Venda é verificada antes de aluguel.
var (
	defaultSalePhrases = []string{"à venda", "a venda", "para comprar", "venda", "comprar", "compra"}
	defaultRentPhrases = []string{"para alugar", "aluguel", "alugar", "locação", "locacao"}
)

// LocationPrepositions introduzem um local ("no centro", "em curitiba")
var LocationPrepositions = []string{"no", "na", "em", "nos", "nas"}

// connectors encerram um trecho de local
var connectors = []string{
	"a", "à", "o", "os", "as", "e", "ou", "com", "sem", "de", "para", "por", "pra",
	"perto", "próximo", "proximo", "até", "acima", "abaixo", "máximo", "mínimo",
	"mais", "menos", "partir", "r", "mil", "milhão", "milhões", "k",
	"quarto", "quartos", "dormitório", "dormitórios", "suíte", "suítes",
	"venda", "comprar", "compra", "aluguel", "alugar", "locação", "locacao",
	"imóvel", "imóveis", "imovel", "imoveis",
}
