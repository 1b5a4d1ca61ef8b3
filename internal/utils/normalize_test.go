package utils

import (
	"testing"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"São Paulo", "Sao Paulo"},
		{"Florianópolis", "Florianopolis"},
		{"Chácara", "Chacara"},
		{"Condomínio", "Condominio"},
		{"Jardim Botânico", "Jardim Botanico"},
		{"Centro", "Centro"},
		{"", ""},
	}

	for _, test := range tests {
		result := RemoveAccents(test.input)
		if result != test.expected {
			t.Errorf("RemoveAccents(%q) = %q; expected %q", test.input, result, test.expected)
		}
	}
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Apartamento NO Centro", "apartamento no centro"},
		{"ATÉ 300K", "até 300k"},
		{"São José dos Pinhais", "são josé dos pinhais"},
		{"", ""},
	}

	for _, test := range tests {
		result := FoldCase(test.input)
		if result != test.expected {
			t.Errorf("FoldCase(%q) = %q; expected %q", test.input, result, test.expected)
		}
		if len(result) != len(test.input) {
			t.Errorf("FoldCase(%q) mudou o tamanho: %d -> %d", test.input, len(test.input), len(result))
		}
	}
}

func TestFoldCasePreservesInvalidBytes(t *testing.T) {
	input := "Casa\xffCentro"
	result := FoldCase(input)
	if len(result) != len(input) {
		t.Fatalf("tamanho alterado: %d -> %d", len(input), len(result))
	}
	if result != "casa\xffcentro" {
		t.Errorf("FoldCase(%q) = %q", input, result)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  casa   no\tcentro \n"); got != "casa no centro" {
		t.Errorf("CollapseSpaces = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ponta grossa", "Ponta Grossa"},
		{"centro", "Centro"},
		{"são josé dos pinhais", "São José Dos Pinhais"},
	}

	for _, test := range tests {
		if got := TitleCase(test.input); got != test.expected {
			t.Errorf("TitleCase(%q) = %q; expected %q", test.input, got, test.expected)
		}
	}
}
