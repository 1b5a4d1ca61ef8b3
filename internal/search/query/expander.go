package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reativa/portal-busca/internal/search/vocabulary"
)

// Expander troca abreviações informais ("apto", "jd", "sp") pela forma canônica
type Expander struct {
	vocab *vocabulary.Vocabulary
}

// NewExpander cria um novo expander
func NewExpander(vocab *vocabulary.Vocabulary) *Expander {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	return &Expander{vocab: vocab}
}

// Expand substitui cada token conhecido mantendo a pontuação ao redor.
// Tokens desconhecidos passam inalterados e os tokens são unidos por um
// único espaço. Texto vazio é devolvido como está.
func (e *Expander) Expand(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	tokens := strings.Fields(text)
	for i, tok := range tokens {
		prefix, core, suffix := splitPunctuation(tok)
		if core == "" {
			continue
		}
		if canonical, ok := e.vocab.Abbreviation(strings.ToLower(core)); ok {
			tokens[i] = prefix + canonical + suffix
		}
	}
	return strings.Join(tokens, " ")
}

// splitPunctuation separa a pontuação inicial e final de um token
func splitPunctuation(tok string) (prefix, core, suffix string) {
	start := strings.IndexFunc(tok, isWordRune)
	if start < 0 {
		return tok, "", ""
	}
	end := strings.LastIndexFunc(tok, isWordRune)
	_, size := utf8.DecodeRuneInString(tok[end:])
	end += size
	return tok[:start], tok[start:end], tok[end:]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
