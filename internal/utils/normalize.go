package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveAccents remove acentos e diacríticos
// Exemplo: "São José" -> "Sao Jose", "Educação" -> "Educacao"
func RemoveAccents(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, _ := transform.String(t, s)
	return normalized
}

// FoldCase converte para minúsculas sem alterar o tamanho em bytes do texto.
// Runas cuja forma minúscula tem outro tamanho são mantidas como estão, de
// modo que posições calculadas no resultado valem também no texto original.
func FoldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		lower := unicode.ToLower(r)
		if r == utf8.RuneError || utf8.RuneLen(lower) != size {
			b.WriteString(s[i : i+size])
		} else {
			b.WriteRune(lower)
		}
		i += size
	}
	return b.String()
}

// CollapseSpaces troca sequências de espaços por um único espaço
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleCase capitaliza cada palavra segundo as regras do português
// Exemplo: "ponta grossa" -> "Ponta Grossa"
func TitleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

var placeParticles = map[string]bool{
	"de": true, "do": true, "da": true, "dos": true, "das": true, "e": true,
}

// PlaceName formata nomes de lugares mantendo as preposições em minúsculas
// Exemplo: "centro de ponta grossa" -> "Centro de Ponta Grossa"
func PlaceName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 && placeParticles[lower] {
			words[i] = lower
			continue
		}
		words[i] = TitleCase(lower)
	}
	return strings.Join(words, " ")
}
