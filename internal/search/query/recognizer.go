package query

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/vocabulary"
	"github.com/reativa/portal-busca/internal/utils"
)

// PriceDirection indica se o preço encontrado é teto ou piso
type PriceDirection string

const (
	PriceDirectionNone PriceDirection = "none"
	PriceDirectionMax  PriceDirection = "max"
	PriceDirectionMin  PriceDirection = "min"
)

const (
	maxLocationWords = 4
	maxCityWords     = 3
)

// Span delimita um trecho do texto expandido, em bytes
type Span struct {
	Start int
	End   int
}

// PriceMatch é o limite de preço reconhecido
type PriceMatch struct {
	Span      Span
	Value     float64
	Direction PriceDirection
}

// TypeMatch é o tipo de imóvel reconhecido
type TypeMatch struct {
	Span Span
	Type models.PropertyType
}

// TransactionMatch é o tipo de negócio reconhecido
type TransactionMatch struct {
	Span Span
	Type models.TransactionType
}

// LocationMatch é um local reconhecido. Spans inclui todas as menções do termo.
type LocationMatch struct {
	Term  LocationTerm
	Spans []Span
}

// BedroomsMatch é o número mínimo de quartos reconhecido
type BedroomsMatch struct {
	Span  Span
	Count int
}

// Recognition reúne o que foi reconhecido em um texto expandido.
// Cada categoria guarda a primeira ocorrência válida e, em *Spans, todas as
// ocorrências da categoria para que o filtro possa ser removido por inteiro.
type Recognition struct {
	Text string

	Price      *PriceMatch
	PriceSpans []Span

	Type      *TypeMatch
	TypeSpans []Span

	Transaction      *TransactionMatch
	TransactionSpans []Span

	Locations []LocationMatch

	Bedrooms      *BedroomsMatch
	BedroomsSpans []Span
}

// pricePattern é uma das formas de limite de preço, testadas em ordem fixa
type pricePattern struct {
	re         *regexp.Regexp
	multiplier float64
	direction  PriceDirection
	bare       bool
}

const (
	maxKeywords = `(?:até|máximo|maximo|abaixo de|menos de)`
	minKeywords = `(?:acima de|mínimo|minimo|mais de|a partir de)`
	currency    = `(?:r\$\s*)?`
	decimalNum  = `(\d+(?:[.,]\d+)?)`
	bareNum     = `(\d{1,3}(?:\.\d{3})+|\d{3,})`

	millionSuffix  = `\s*(?:milhão|milhões|milhao|milhoes)`
	thousandSuffix = `\s*k`
	milSuffix      = `\s*mil`
)

func newPricePattern(keywords, number, suffix string, mult float64, dir PriceDirection) pricePattern {
	return pricePattern{
		re:         regexp.MustCompile(`(` + keywords + `\s+(?:de\s+)?` + currency + number + suffix + `)`),
		multiplier: mult,
		direction:  dir,
		bare:       number == bareNum,
	}
}

// pricePatterns em ordem de prioridade: sufixos explícitos antes de números
// soltos, que podem ser confundidos com ano ou área. Só o primeiro casa.
var pricePatterns = []pricePattern{
	newPricePattern(maxKeywords, decimalNum, millionSuffix, 1_000_000, PriceDirectionMax),
	newPricePattern(minKeywords, decimalNum, millionSuffix, 1_000_000, PriceDirectionMin),
	newPricePattern(maxKeywords, decimalNum, thousandSuffix, 1_000, PriceDirectionMax),
	newPricePattern(minKeywords, decimalNum, thousandSuffix, 1_000, PriceDirectionMin),
	newPricePattern(maxKeywords, decimalNum, milSuffix, 1_000, PriceDirectionMax),
	newPricePattern(minKeywords, decimalNum, milSuffix, 1_000, PriceDirectionMin),
	newPricePattern(maxKeywords, bareNum, "", 1, PriceDirectionMax),
	newPricePattern(minKeywords, bareNum, "", 1, PriceDirectionMin),
}

var bedroomsPattern = regexp.MustCompile(`((\d+)\s*(?:quartos?|dormitórios?|dormitorios?))`)

// Recognizer aplica as regras de reconhecimento por categoria. É usado
// pelo interpretador, pelos chips de filtro e pelas sugestões.
type Recognizer struct {
	vocab    *vocabulary.Vocabulary
	expander *Expander
}

// NewRecognizer cria um novo reconhecedor
func NewRecognizer(vocab *vocabulary.Vocabulary) *Recognizer {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	return &Recognizer{
		vocab:    vocab,
		expander: NewExpander(vocab),
	}
}

// Expand expande abreviações do texto
func (r *Recognizer) Expand(text string) string {
	return r.expander.Expand(text)
}

// Recognize analisa um texto já expandido
func (r *Recognizer) Recognize(expanded string) Recognition {
	folded := utils.FoldCase(expanded)
	rec := Recognition{Text: expanded}

	rec.Price, rec.PriceSpans = r.recognizePrice(folded)
	rec.Type, rec.TypeSpans = r.recognizeType(folded)
	rec.Transaction, rec.TransactionSpans = r.recognizeTransaction(folded)
	rec.Locations = r.recognizeLocations(folded)
	rec.Bedrooms, rec.BedroomsSpans = r.recognizeBedrooms(folded)

	return rec
}

func (r *Recognizer) recognizePrice(text string) (*PriceMatch, []Span) {
	var first *PriceMatch
	var spans []Span

	for _, p := range pricePatterns {
		for _, loc := range findAllBounded(p.re, text) {
			value, ok := parseAmount(text[loc[4]:loc[5]], p.bare)
			if !ok {
				continue
			}
			spans = append(spans, Span{Start: loc[2], End: loc[3]})
			if first == nil {
				first = &PriceMatch{
					Span:      Span{Start: loc[2], End: loc[3]},
					Value:     math.Round(value * p.multiplier),
					Direction: p.direction,
				}
			}
		}
	}
	return first, mergeSpans(spans)
}

func parseAmount(s string, bare bool) (float64, bool) {
	if bare {
		s = strings.ReplaceAll(s, ".", "")
	} else {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (r *Recognizer) recognizeType(text string) (*TypeMatch, []Span) {
	var first *TypeMatch
	var spans []Span

	for _, tm := range r.vocab.PropertyTypes() {
		for _, term := range tm.Terms {
			for _, start := range findWords(text, term) {
				span := Span{Start: start, End: start + len(term)}
				spans = append(spans, span)
				if first == nil {
					first = &TypeMatch{Span: span, Type: tm.Type}
				}
			}
		}
	}
	return first, mergeSpans(spans)
}

func (r *Recognizer) recognizeTransaction(text string) (*TransactionMatch, []Span) {
	var first *TransactionMatch
	var spans []Span

	scan := func(phrases []string, t models.TransactionType) {
		for _, phrase := range phrases {
			for _, start := range findWords(text, phrase) {
				span := Span{Start: start, End: start + len(phrase)}
				spans = append(spans, span)
				if first == nil {
					first = &TransactionMatch{Span: span, Type: t}
				}
			}
		}
	}
	scan(r.vocab.SalePhrases(), models.TransactionSale)
	scan(r.vocab.RentPhrases(), models.TransactionRent)

	return first, mergeSpans(spans)
}

func (r *Recognizer) recognizeBedrooms(text string) (*BedroomsMatch, []Span) {
	var first *BedroomsMatch
	var spans []Span

	for _, loc := range findAllBounded(bedroomsPattern, text) {
		count, err := strconv.Atoi(text[loc[4]:loc[5]])
		if err != nil {
			continue
		}
		span := Span{Start: loc[2], End: loc[3]}
		spans = append(spans, span)
		if first == nil {
			first = &BedroomsMatch{Span: span, Count: count}
		}
	}
	return first, spans
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
	tokenPunct
)

type token struct {
	text  string
	start int
	end   int
	kind  tokenKind
}

// tokenize divide o texto em palavras, números e pontuação
func tokenize(text string) []token {
	var tokens []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordRune(r):
			start := i
			hasDigit := false
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if isWordRune(r) {
					hasDigit = hasDigit || unicode.IsDigit(r)
					i += size
					continue
				}
				// hífen e apóstrofo internos ("são-josé", "d'oeste")
				if (r == '-' || r == '\'') && i+size < len(text) {
					next, _ := utf8.DecodeRuneInString(text[i+size:])
					if unicode.IsLetter(next) {
						i += size
						continue
					}
				}
				break
			}
			kind := tokenWord
			if hasDigit {
				kind = tokenNumber
			}
			tokens = append(tokens, token{text: text[start:i], start: start, end: i, kind: kind})
		default:
			tokens = append(tokens, token{text: text[i : i+size], start: i, end: i + size, kind: tokenPunct})
			i += size
		}
	}
	return tokens
}

// recognizeLocations faz duas passagens: trechos compostos "X de Y" e
// trechos introduzidos por preposição ("no centro"). Uma preposição logo
// antes de um trecho composto passa a fazer parte dele.
func (r *Recognizer) recognizeLocations(text string) []LocationMatch {
	tokens := tokenize(text)

	type found struct {
		term LocationTerm
		span Span
	}
	var all []found
	compoundStart := make(map[int]bool)
	consumed := make([]bool, len(tokens))

	for i := 0; i+2 < len(tokens); i++ {
		x := tokens[i]
		if !r.isLocationWord(x) || tokens[i+1].kind != tokenWord || tokens[i+1].text != "de" {
			continue
		}
		var city []string
		last := i + 1
		for j := i + 2; j < len(tokens) && len(city) < maxCityWords; j++ {
			if !r.isLocationWord(tokens[j]) {
				break
			}
			city = append(city, tokens[j].text)
			last = j
		}
		if len(city) == 0 {
			continue
		}

		start := i
		if i > 0 && tokens[i-1].kind == tokenWord && vocabulary.IsPreposition(tokens[i-1].text) {
			start = i - 1
		}
		cityName := strings.Join(city, " ")
		all = append(all, found{
			term: LocationTerm{
				Term:         x.text + " de " + cityName,
				Neighborhood: x.text,
				City:         cityName,
			},
			span: Span{Start: tokens[start].start, End: tokens[last].end},
		})
		compoundStart[i] = true
		for k := start; k <= last; k++ {
			consumed[k] = true
		}
		i = last
	}

	for i := 0; i < len(tokens); i++ {
		if consumed[i] || tokens[i].kind != tokenWord || !vocabulary.IsPreposition(tokens[i].text) {
			continue
		}
		var words []string
		last := i
		for j := i + 1; j < len(tokens) && len(words) < maxLocationWords; j++ {
			if consumed[j] || compoundStart[j] || !r.isLocationWord(tokens[j]) {
				break
			}
			words = append(words, tokens[j].text)
			last = j
		}
		if len(words) == 0 {
			continue
		}
		all = append(all, found{
			term: LocationTerm{Term: strings.Join(words, " ")},
			span: Span{Start: tokens[i].start, End: tokens[last].end},
		})
		i = last
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].span.Start < all[b].span.Start
	})

	var matches []LocationMatch
	index := make(map[string]int)
	for _, f := range all {
		if idx, ok := index[f.term.Term]; ok {
			matches[idx].Spans = append(matches[idx].Spans, f.span)
			continue
		}
		index[f.term.Term] = len(matches)
		matches = append(matches, LocationMatch{Term: f.term, Spans: []Span{f.span}})
	}
	return matches
}

func (r *Recognizer) isLocationWord(t token) bool {
	return t.kind == tokenWord && !r.vocab.IsStopWord(t.text)
}

// findAllBounded devolve as ocorrências do padrão cujo grupo 1 começa e
// termina em fronteira de palavra
func findAllBounded(re *regexp.Regexp, text string) [][]int {
	var out [][]int
	pos := 0
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for k := range loc {
			if loc[k] >= 0 {
				loc[k] += pos
			}
		}
		if boundaryBefore(text, loc[2]) && boundaryAfter(text, loc[3]) {
			out = append(out, loc)
			pos = loc[3]
			continue
		}
		_, size := utf8.DecodeRuneInString(text[loc[2]:])
		pos = loc[2] + size
	}
	return out
}

// findWords devolve o início de cada ocorrência de word como palavra inteira
func findWords(text, word string) []int {
	if word == "" {
		return nil
	}
	var out []int
	pos := 0
	for pos < len(text) {
		i := strings.Index(text[pos:], word)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			out = append(out, start)
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return out
}

func boundaryBefore(text string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

// mergeSpans ordena e une trechos sobrepostos
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	sorted := append([]Span(nil), spans...)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start < sorted[b].Start
	})
	out := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
