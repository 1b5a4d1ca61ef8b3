package vocabulary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/reativa/portal-busca/internal/utils"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"go.uber.org/zap"
)

// SynonymService publica as abreviações como sinônimos de uma collection do Typesense
type SynonymService struct {
	client     *typesense.Client
	collection string
	vocab      *Vocabulary
	logger     *zap.Logger
}

// NewSynonymService cria um novo serviço de sinônimos
func NewSynonymService(client *typesense.Client, collection string, vocab *Vocabulary, logger *zap.Logger) *SynonymService {
	return &SynonymService{
		client:     client,
		collection: collection,
		vocab:      vocab,
		logger:     logger.With(zap.String("component", "synonyms"), zap.String("collection", collection)),
	}
}

// Sync envia um grupo de sinônimos por forma canônica.
// Falhas individuais são registradas e não interrompem o envio.
func (s *SynonymService) Sync(ctx context.Context) (int, error) {
	groups := s.vocab.Canonicals()
	roots := make([]string, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	loaded := 0
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		if err := s.upsert(ctx, root, groups[root]); err != nil {
			s.logger.Warn("erro ao carregar sinônimo", zap.String("root", root), zap.Error(err))
			continue
		}
		loaded++
	}

	s.logger.Info("sinônimos carregados", zap.Int("loaded", loaded), zap.Int("total", len(roots)))
	return loaded, nil
}

func (s *SynonymService) upsert(ctx context.Context, root string, abbreviations []string) error {
	id := SynonymID(root)
	schema := &api.SearchSynonymSchema{
		Synonyms: append([]string{root}, abbreviations...),
	}

	if _, err := s.client.Collection(s.collection).Synonyms().Upsert(ctx, id, schema); err != nil {
		return fmt.Errorf("erro ao upsert sinônimo %s: %w", id, err)
	}
	return nil
}

// SynonymID converte a forma canônica em um ID aceito pelo Typesense
func SynonymID(root string) string {
	id := strings.ToLower(utils.RemoveAccents(root))
	id = strings.NewReplacer(" ", "_", "-", "_").Replace(id)
	return "abbr_" + id
}
