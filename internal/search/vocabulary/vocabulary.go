// Package vocabulary reúne as tabelas estáticas usadas na interpretação de
// buscas: abreviações, tipos de imóvel, frases de negócio e palavras que
// delimitam trechos de local. As tabelas são montadas uma única vez na
// inicialização e nunca são alteradas depois disso.
package vocabulary

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/reativa/portal-busca/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrChainedAbbreviation = errors.New("abreviação aponta para outra abreviação")
	ErrUnknownPropertyType = errors.New("tipo de imóvel desconhecido")
	ErrEmptyEntry          = errors.New("entrada vazia no vocabulário")
)

// Vocabulary é um conjunto imutável de tabelas de interpretação
type Vocabulary struct {
	abbreviations map[string]string
	types         []TypeMapping
	sale          []string
	rent          []string
	stopWords     map[string]struct{}
}

// Extension descreve o arquivo YAML opcional que amplia o vocabulário padrão
type Extension struct {
	Abbreviations map[string]string   `yaml:"abbreviations"`
	TypeTerms     map[string][]string `yaml:"type_terms"`
}

var defaultVocabulary = mustBuild(nil)

// Default retorna o vocabulário padrão compartilhado
func Default() *Vocabulary {
	return defaultVocabulary
}

// Load lê um arquivo YAML e retorna o vocabulário padrão ampliado por ele
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler vocabulário %s: %w", path, err)
	}
	return Parse(data)
}

// Parse interpreta o conteúdo YAML de uma extensão de vocabulário
func Parse(data []byte) (*Vocabulary, error) {
	var ext Extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("erro ao interpretar vocabulário: %w", err)
	}
	return build(&ext)
}

func mustBuild(ext *Extension) *Vocabulary {
	v, err := build(ext)
	if err != nil {
		panic(err)
	}
	return v
}

func build(ext *Extension) (*Vocabulary, error) {
	v := &Vocabulary{
		abbreviations: make(map[string]string, len(defaultAbbreviations)),
		types:         make([]TypeMapping, len(defaultPropertyTypes)),
		sale:          defaultSalePhrases,
		rent:          defaultRentPhrases,
	}

	for k, val := range defaultAbbreviations {
		v.abbreviations[k] = val
	}
	for i, tm := range defaultPropertyTypes {
		v.types[i] = TypeMapping{Type: tm.Type, Terms: append([]string(nil), tm.Terms...)}
	}

	if ext != nil {
		for k, val := range ext.Abbreviations {
			k = strings.ToLower(strings.TrimSpace(k))
			val = strings.ToLower(strings.TrimSpace(val))
			if k == "" || val == "" {
				return nil, ErrEmptyEntry
			}
			v.abbreviations[k] = val
		}
		for typeName, terms := range ext.TypeTerms {
			idx := v.typeIndex(models.PropertyType(typeName))
			if idx < 0 {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPropertyType, typeName)
			}
			for _, term := range terms {
				term = strings.ToLower(strings.TrimSpace(term))
				if term == "" {
					return nil, ErrEmptyEntry
				}
				v.types[idx].Terms = append(v.types[idx].Terms, term)
			}
		}
	}

	if err := v.validateFlat(); err != nil {
		return nil, err
	}
	v.stopWords = v.buildStopWords()
	return v, nil
}

// validateFlat garante que nenhuma palavra de um valor seja também uma chave
func (v *Vocabulary) validateFlat() error {
	for k, val := range v.abbreviations {
		for _, word := range strings.Fields(val) {
			if _, chained := v.abbreviations[word]; chained {
				return fmt.Errorf("%w: %s -> %s", ErrChainedAbbreviation, k, val)
			}
		}
	}
	return nil
}

func (v *Vocabulary) typeIndex(t models.PropertyType) int {
	for i, tm := range v.types {
		if strings.EqualFold(string(tm.Type), string(t)) {
			return i
		}
	}
	return -1
}

func (v *Vocabulary) buildStopWords() map[string]struct{} {
	words := make(map[string]struct{})
	add := func(phrase string) {
		for _, w := range strings.Fields(phrase) {
			words[w] = struct{}{}
		}
	}
	for _, w := range connectors {
		add(w)
	}
	for _, w := range LocationPrepositions {
		add(w)
	}
	for _, tm := range v.types {
		for _, term := range tm.Terms {
			add(term)
		}
	}
	for _, p := range v.sale {
		add(p)
	}
	for _, p := range v.rent {
		add(p)
	}
	return words
}

// Abbreviation retorna a forma canônica de um token já em minúsculas
func (v *Vocabulary) Abbreviation(token string) (string, bool) {
	canonical, ok := v.abbreviations[token]
	return canonical, ok
}

// Canonicals agrupa as abreviações por forma canônica, em ordem alfabética
func (v *Vocabulary) Canonicals() map[string][]string {
	groups := make(map[string][]string)
	for k, val := range v.abbreviations {
		groups[val] = append(groups[val], k)
	}
	for _, list := range groups {
		sort.Strings(list)
	}
	return groups
}

// PropertyTypes retorna o mapeamento ordenado de tipos
func (v *Vocabulary) PropertyTypes() []TypeMapping {
	return v.types
}

// SalePhrases retorna as frases que indicam venda, em ordem de prioridade
func (v *Vocabulary) SalePhrases() []string {
	return v.sale
}

// RentPhrases retorna as frases que indicam aluguel, em ordem de prioridade
func (v *Vocabulary) RentPhrases() []string {
	return v.rent
}

// IsStopWord indica se a palavra encerra um trecho de local
func (v *Vocabulary) IsStopWord(word string) bool {
	_, ok := v.stopWords[word]
	return ok
}

// IsPreposition indica se a palavra introduz um local
func IsPreposition(word string) bool {
	for _, p := range LocationPrepositions {
		if p == word {
			return true
		}
	}
	return false
}
