package models

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		wantErr  error
		wantPage int
		wantSort SortMode
	}{
		{"defaults", SearchRequest{Query: "  casa  "}, nil, 1, SortRelevance},
		{"vazia é permitida", SearchRequest{}, nil, 1, SortRelevance},
		{"mantém ordenação", SearchRequest{Query: "casa", Page: 3, Sort: SortPriceDesc}, nil, 3, SortPriceDesc},
		{"página negativa", SearchRequest{Query: "casa", Page: -2}, ErrInvalidPage, 0, ""},
		{"longa demais", SearchRequest{Query: strings.Repeat("é", MaxQueryLength+1)}, ErrQueryTooLong, 0, ""},
		{"limite exato", SearchRequest{Query: strings.Repeat("é", MaxQueryLength)}, nil, 1, SortRelevance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.req.Page != tt.wantPage || tt.req.Sort != tt.wantSort {
				t.Errorf("Page = %d, Sort = %q", tt.req.Page, tt.req.Sort)
			}
		})
	}
}

func TestTextRequestValidate(t *testing.T) {
	req := TextRequest{Query: "  apto centro "}
	if err := req.Validate(); err != nil || req.Query != "apto centro" {
		t.Errorf("Validate() = %v, Query = %q", err, req.Query)
	}

	req = TextRequest{Query: "   "}
	if err := req.Validate(); !errors.Is(err, ErrQueryRequired) {
		t.Errorf("Validate() = %v, want ErrQueryRequired", err)
	}
}

func TestSortModeOrDefault(t *testing.T) {
	if got := SortMode("barato").OrDefault(); got != SortRecent {
		t.Errorf("OrDefault() = %q", got)
	}
	if got := SortPriceAsc.OrDefault(); got != SortPriceAsc {
		t.Errorf("OrDefault() = %q", got)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 25)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d", p.TotalPages)
	}
	if NewPagination(1, 12, 0).TotalPages != 0 {
		t.Error("sem resultados deveria ter zero páginas")
	}
}
