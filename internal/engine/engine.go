package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"leadscout/internal/geo"
	"leadscout/internal/models"
)

// defaultCacheSize bounds each of the engine's two caches. Eviction is
// oldest-first once the bound is exceeded.
const defaultCacheSize = 50

// Stats exposes cache behavior for monitoring and tests. Evaluations counts
// individual predicate checks; a fully cached call adds none.
type Stats struct {
	Evaluations   int64 `json:"evaluations"`
	ResultHits    int64 `json:"result_hits"`
	ResultMisses  int64 `json:"result_misses"`
	SearchHits    int64 `json:"search_hits"`
	SearchMisses  int64 `json:"search_misses"`
	Invalidations int64 `json:"invalidations"`
}

// Engine applies filter criteria to an in-memory record set. It owns two
// bounded caches: one for raw text-search subsets keyed by the lowercased
// term, one for complete results keyed by a canonical composite key. Both are
// flushed whenever the underlying record count changes.
type Engine struct {
	mu          sync.Mutex
	searchCache *fifoCache
	resultCache *fifoCache
	recordCount int
	primed      bool
	stats       Stats
}

func New() *Engine {
	return &Engine{
		searchCache: newFifoCache(defaultCacheSize),
		resultCache: newFifoCache(defaultCacheSize),
		recordCount: -1,
	}
}

// Apply returns the subset of records passing every populated predicate.
// Predicates run cheapest first; the distance check is last because it costs
// a haversine evaluation per surviving candidate. Repeated calls with the
// same criteria over an unchanged record set return the cached slice.
func (e *Engine) Apply(records []*models.Business, criteria models.FilterCriteria) []*models.Business {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.primed || len(records) != e.recordCount {
		e.invalidateLocked(len(records))
	}

	key := cacheKey(criteria)
	if cached, ok := e.resultCache.get(key); ok {
		e.stats.ResultHits++
		return cached
	}
	e.stats.ResultMisses++

	result := e.searchSubset(records, criteria.SearchTerm)

	if criteria.SelectedCategory != "" {
		result = e.filterInPlace(result, func(b *models.Business) bool {
			return b.Category == criteria.SelectedCategory
		})
	}

	if criteria.VisibleProviders != nil {
		allowed := make(map[string]bool, len(criteria.VisibleProviders))
		for _, p := range criteria.VisibleProviders {
			allowed[p] = true
		}
		result = e.filterInPlace(result, func(b *models.Business) bool {
			return allowed[b.Provider]
		})
	}

	if criteria.PhoneType != "" && criteria.PhoneType != models.PhoneFilterAll {
		result = e.filterInPlace(result, func(b *models.Business) bool {
			return EffectivePhoneType(b) == criteria.PhoneType
		})
	}

	if criteria.DroppedPin != nil {
		pin := *criteria.DroppedPin
		result = e.filterInPlace(result, func(b *models.Business) bool {
			d := geo.DistanceKm(pin.Latitude, pin.Longitude,
				b.Coordinates.Latitude, b.Coordinates.Longitude)
			return d <= criteria.RadiusKm
		})
	}

	e.resultCache.put(key, result)
	return result
}

// Invalidate flushes both caches. The record services call this after any
// import, bulk delete or clear.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked(-1)
	e.primed = false
}

// Stats returns a snapshot of cache counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) invalidateLocked(newCount int) {
	e.searchCache.reset()
	e.resultCache.reset()
	e.recordCount = newCount
	e.primed = true
	e.stats.Invalidations++
}

// searchSubset returns the records whose name, address or provider contains
// the term case-insensitively, consulting the search cache first. An empty
// term matches everything and bypasses the cache.
func (e *Engine) searchSubset(records []*models.Business, term string) []*models.Business {
	if term == "" {
		out := make([]*models.Business, len(records))
		copy(out, records)
		return out
	}

	needle := strings.ToLower(term)
	if cached, ok := e.searchCache.get(needle); ok {
		e.stats.SearchHits++
		out := make([]*models.Business, len(cached))
		copy(out, cached)
		return out
	}
	e.stats.SearchMisses++

	matched := make([]*models.Business, 0)
	for _, b := range records {
		e.stats.Evaluations++
		if strings.Contains(strings.ToLower(b.Name), needle) ||
			strings.Contains(strings.ToLower(b.Address), needle) ||
			strings.Contains(strings.ToLower(b.Provider), needle) {
			matched = append(matched, b)
		}
	}

	e.searchCache.put(needle, matched)
	out := make([]*models.Business, len(matched))
	copy(out, matched)
	return out
}

func (e *Engine) filterInPlace(records []*models.Business, keep func(*models.Business) bool) []*models.Business {
	out := records[:0]
	for _, b := range records {
		e.stats.Evaluations++
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// cacheKey builds a canonical composite key: fixed field order, providers
// sorted, so structurally equal criteria always collide on the same entry.
func cacheKey(criteria models.FilterCriteria) string {
	var sb strings.Builder

	sb.WriteString("q=")
	sb.WriteString(strings.ToLower(criteria.SearchTerm))
	sb.WriteString("|cat=")
	sb.WriteString(criteria.SelectedCategory)

	sb.WriteString("|prov=")
	if criteria.VisibleProviders == nil {
		sb.WriteString("*")
	} else {
		providers := make([]string, len(criteria.VisibleProviders))
		copy(providers, criteria.VisibleProviders)
		sort.Strings(providers)
		sb.WriteString(strings.Join(providers, ","))
	}

	sb.WriteString("|phone=")
	if criteria.PhoneType == "" {
		sb.WriteString(models.PhoneFilterAll)
	} else {
		sb.WriteString(criteria.PhoneType)
	}

	if criteria.DroppedPin != nil {
		fmt.Fprintf(&sb, "|pin=%.6f,%.6f|r=%.3f",
			criteria.DroppedPin.Latitude, criteria.DroppedPin.Longitude, criteria.RadiusKm)
	}

	return sb.String()
}

// fifoCache is a bounded insert-order cache. Not an LRU: hits do not refresh
// an entry's position, the oldest insertion is always evicted first.
type fifoCache struct {
	entries map[string][]*models.Business
	order   []string
	max     int
}

func newFifoCache(max int) *fifoCache {
	return &fifoCache{
		entries: make(map[string][]*models.Business),
		max:     max,
	}
}

func (c *fifoCache) get(key string) ([]*models.Business, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *fifoCache) put(key string, value []*models.Business) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
		if len(c.order) > c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = value
}

func (c *fifoCache) reset() {
	c.entries = make(map[string][]*models.Business)
	c.order = nil
}
