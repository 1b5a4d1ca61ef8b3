package search

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/reativa/portal-busca/internal/models"
)

const (
	defaultPageTTL      = 2 * time.Minute
	defaultPageCapacity = 500
)

// PageCache guarda em memória a resposta completa de uma página da listagem
// (imóveis, paginação, pílulas, sugestões e timing) por alguns minutos.
// Respostas degradadas não entram. Cheio, descarta a página usada há mais
// tempo.
type PageCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	order    *list.List
	pages    map[string]*list.Element
	now      func() time.Time
}

type cachedPage struct {
	key      string
	response *models.SearchResponse
	expires  time.Time
}

// NewPageCache cria o cache; valores não positivos usam os padrões
func NewPageCache(ttl time.Duration, capacity int) *PageCache {
	if ttl <= 0 {
		ttl = defaultPageTTL
	}
	if capacity <= 0 {
		capacity = defaultPageCapacity
	}
	return &PageCache{
		ttl:      ttl,
		capacity: capacity,
		order:    list.New(),
		pages:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// PageKey identifica uma página da listagem. Compõe a chave o texto exato
// digitado, a página (mínimo 1), a ordenação normalizada e o flag de
// sugestões. Abreviações não são expandidas: "cs" e "casa" geram chaves
// distintas.
func PageKey(req *models.SearchRequest) string {
	page := req.Page
	if page < 1 {
		page = 1
	}
	h := sha256.New()
	h.Write([]byte(req.Query))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(page)))
	h.Write([]byte{0})
	h.Write([]byte(req.Sort.OrDefault()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(req.NoSuggestions)))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Get devolve a página guardada, ou nil se ausente ou vencida
func (c *PageCache) Get(key string) *models.SearchResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.pages[key]
	if !ok {
		return nil
	}
	entry := el.Value.(*cachedPage)
	if !c.now().Before(entry.expires) {
		c.remove(el)
		return nil
	}
	c.order.MoveToFront(el)
	return entry.response
}

// Put guarda a página e renova o prazo se a chave já existia
func (c *PageCache) Put(key string, response *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.pages[key]; ok {
		entry := el.Value.(*cachedPage)
		entry.response = response
		entry.expires = expires
		c.order.MoveToFront(el)
		return
	}

	for c.order.Len() >= c.capacity {
		c.remove(c.order.Back())
	}
	c.pages[key] = c.order.PushFront(&cachedPage{key: key, response: response, expires: expires})
}

// Len conta as páginas guardadas, vencidas ou não
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear descarta todas as páginas
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.pages)
}

func (c *PageCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.pages, el.Value.(*cachedPage).key)
}
