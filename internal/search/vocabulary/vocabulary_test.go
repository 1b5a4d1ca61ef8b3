package vocabulary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/typesense/typesense-go/v3/typesense"
	"go.uber.org/zap"
)

func TestDefaultIsFlat(t *testing.T) {
	v := Default()
	for key, value := range v.abbreviations {
		for _, word := range strings.Fields(value) {
			if _, ok := v.Abbreviation(word); ok {
				t.Errorf("abreviação %q -> %q aponta para outra abreviação (%q)", key, value, word)
			}
		}
	}
}

func TestDefaultTables(t *testing.T) {
	v := Default()

	if got, ok := v.Abbreviation("apto"); !ok || got != "apartamento" {
		t.Errorf("Abbreviation(apto) = %q, %v", got, ok)
	}
	if _, ok := v.Abbreviation("apartamento"); ok {
		t.Error("forma canônica não deveria ser abreviação")
	}

	types := v.PropertyTypes()
	if len(types) == 0 || types[0].Type != models.PropertyTypeHouse {
		t.Errorf("primeiro tipo deveria ser Casa: %+v", types)
	}
	if v.SalePhrases()[0] != "à venda" || v.RentPhrases()[0] != "para alugar" {
		t.Error("frases compostas deveriam vir primeiro")
	}

	for _, w := range []string{"com", "casa", "venda", "no", "até"} {
		if !v.IsStopWord(w) {
			t.Errorf("%q deveria encerrar um local", w)
		}
	}
	for _, w := range []string{"centro", "batel", "curitiba"} {
		if v.IsStopWord(w) {
			t.Errorf("%q não deveria encerrar um local", w)
		}
	}

	if !IsPreposition("nas") || IsPreposition("de") {
		t.Error("IsPreposition incorreto")
	}
}

func TestCanonicals(t *testing.T) {
	groups := Default().Canonicals()

	got := groups["apartamento"]
	want := []string{"ap", "ape", "apt", "apto", "apê"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Canonicals()[apartamento] = %v, want %v", got, want)
	}
	if got := groups["curitiba"]; len(got) != 2 {
		t.Errorf("Canonicals()[curitiba] = %v", got)
	}
}

func TestParse(t *testing.T) {
	t.Run("amplia o padrão", func(t *testing.T) {
		data := []byte(`
abbreviations:
  Sbd: sobrado
  cob: cobertura
type_terms:
  Casa: [geminado, geminados]
`)
		v, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() erro: %v", err)
		}
		if got, _ := v.Abbreviation("sbd"); got != "sobrado" {
			t.Errorf("Abbreviation(sbd) = %q", got)
		}
		if got, _ := v.Abbreviation("apto"); got != "apartamento" {
			t.Errorf("padrão perdido: Abbreviation(apto) = %q", got)
		}
		terms := v.PropertyTypes()[0].Terms
		if terms[len(terms)-1] != "geminados" {
			t.Errorf("termos de Casa = %v", terms)
		}
		if !v.IsStopWord("geminado") {
			t.Error("novo termo de tipo deveria encerrar um local")
		}
		if len(Default().PropertyTypes()[0].Terms) == len(terms) {
			t.Error("extensão não deveria alterar o vocabulário padrão")
		}
	})

	t.Run("abreviação encadeada", func(t *testing.T) {
		_, err := Parse([]byte("abbreviations:\n  xpto: apto\n"))
		if !errors.Is(err, ErrChainedAbbreviation) {
			t.Errorf("esperado ErrChainedAbbreviation, got %v", err)
		}
	})

	t.Run("tipo desconhecido", func(t *testing.T) {
		_, err := Parse([]byte("type_terms:\n  Galpão: [galpao]\n"))
		if !errors.Is(err, ErrUnknownPropertyType) {
			t.Errorf("esperado ErrUnknownPropertyType, got %v", err)
		}
	})

	t.Run("entrada vazia", func(t *testing.T) {
		_, err := Parse([]byte("abbreviations:\n  xx: \"  \"\n"))
		if !errors.Is(err, ErrEmptyEntry) {
			t.Errorf("esperado ErrEmptyEntry, got %v", err)
		}
	})

	t.Run("yaml inválido", func(t *testing.T) {
		if _, err := Parse([]byte("abbreviations: [")); err == nil {
			t.Error("esperado erro de YAML")
		}
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	if err := os.WriteFile(path, []byte("abbreviations:\n  cob: cobertura\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load() erro: %v", err)
	}
	if got, _ := v.Abbreviation("cob"); got != "cobertura" {
		t.Errorf("Abbreviation(cob) = %q", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nao-existe.yaml")); err == nil {
		t.Error("esperado erro para arquivo inexistente")
	}
}

func TestSynonymID(t *testing.T) {
	tests := map[string]string{
		"apartamento":    "abbr_apartamento",
		"são paulo":      "abbr_sao_paulo",
		"rio de janeiro": "abbr_rio_de_janeiro",
		"dormitório":     "abbr_dormitorio",
	}
	for root, want := range tests {
		if got := SynonymID(root); got != want {
			t.Errorf("SynonymID(%q) = %q, want %q", root, got, want)
		}
	}
}

func TestSynonymServiceSync(t *testing.T) {
	var mu sync.Mutex
	received := make(map[string][]string)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasPrefix(r.URL.Path, "/collections/imoveis/synonyms/") {
			http.Error(w, "unexpected", http.StatusNotFound)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/collections/imoveis/synonyms/")
		if id == "abbr_vila" {
			http.Error(w, `{"message":"falha"}`, http.StatusInternalServerError)
			return
		}

		var body struct {
			Synonyms []string `json:"synonyms"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		received[id] = body.Synonyms
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "synonyms": body.Synonyms})
	}))
	defer server.Close()

	client := typesense.NewClient(typesense.WithServer(server.URL), typesense.WithAPIKey("test"))
	service := NewSynonymService(client, "imoveis", Default(), zap.NewNop())

	loaded, err := service.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() erro: %v", err)
	}

	total := len(Default().Canonicals())
	if loaded != total-1 {
		t.Errorf("loaded = %d, want %d", loaded, total-1)
	}

	mu.Lock()
	defer mu.Unlock()
	group := received["abbr_apartamento"]
	if len(group) == 0 || group[0] != "apartamento" {
		t.Errorf("grupo apartamento = %v", group)
	}
}
