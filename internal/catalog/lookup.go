package catalog

import (
	"github.com/revlens-dev/revlens/internal/model"
)

// Lookup provides in-memory access to catalog entries by numeric id.
type Lookup struct {
	byID map[int]model.CatalogEntry
}

// BuildLookup indexes catalog entries by id. Entries without an id
// are skipped. A colliding id cannot be joined unambiguously, so all
// entries carrying it are dropped and the id enriches nothing.
func BuildLookup(entries []model.CatalogEntry) *Lookup {
	byID := make(map[int]model.CatalogEntry, len(entries))
	collided := make(map[int]bool)
	for _, e := range entries {
		if e.ID == 0 || collided[e.ID] {
			continue
		}
		if _, ok := byID[e.ID]; ok {
			delete(byID, e.ID)
			collided[e.ID] = true
			continue
		}
		byID[e.ID] = e
	}
	return &Lookup{byID: byID}
}

// Get returns the entry for id.
func (l *Lookup) Get(id int) (model.CatalogEntry, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// Len returns how many entries are indexed.
func (l *Lookup) Len() int {
	return len(l.byID)
}
