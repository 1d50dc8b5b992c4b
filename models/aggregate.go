package models

import "sort"

// GameEntry holds at most one offer per store. A nil slot means the store
// never listed the game under this exact title.
type GameEntry struct {
	G2A     *StoreRecord
	Kinguin *StoreRecord
	CDKeys  *StoreRecord
}

// Slot returns the record stored for s, or nil.
func (e *GameEntry) Slot(s Store) *StoreRecord {
	switch s {
	case G2A:
		return e.G2A
	case Kinguin:
		return e.Kinguin
	case CDKeys:
		return e.CDKeys
	}
	return nil
}

func (e *GameEntry) set(s Store, rec *StoreRecord) {
	switch s {
	case G2A:
		e.G2A = rec
	case Kinguin:
		e.Kinguin = rec
	case CDKeys:
		e.CDKeys = rec
	}
}

// AggregateMap merges offers from every store, keyed by the exact title text.
type AggregateMap map[string]*GameEntry

// NewAggregateMap returns an empty map.
func NewAggregateMap() AggregateMap {
	return make(AggregateMap)
}

// Upsert replaces the store's slot for title and leaves the other slots alone.
func (m AggregateMap) Upsert(title string, store Store, record StoreRecord) {
	entry, ok := m[title]
	if !ok {
		entry = &GameEntry{}
		m[title] = entry
	}
	rec := record
	entry.set(store, &rec)
}

// Merge upserts sightings in order, so a later sighting of the same title wins.
func (m AggregateMap) Merge(sightings []Sighting) {
	for _, s := range sightings {
		m.Upsert(s.Title, s.Store, s.Record)
	}
}

// Titles returns the keys sorted.
func (m AggregateMap) Titles() []string {
	titles := make([]string, 0, len(m))
	for title := range m {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// GameRecord is a flattened export row.
type GameRecord struct {
	Name         string  `csv:"name" json:"name"`
	G2APrice     float64 `csv:"g2a_price" json:"g2a_price"`
	G2ASale      int     `csv:"g2a_sale" json:"g2a_sale"`
	G2ALink      string  `csv:"g2a_link" json:"g2a_link"`
	KinguinPrice float64 `csv:"kinguin_price" json:"kinguin_price"`
	KinguinSale  int     `csv:"kinguin_sale" json:"kinguin_sale"`
	KinguinLink  string  `csv:"kinguin_link" json:"kinguin_link"`
	CDKeysPrice  float64 `csv:"cdkeys_price" json:"cdkeys_price"`
	CDKeysSale   int     `csv:"cdkeys_sale" json:"cdkeys_sale"`
	CDKeysLink   string  `csv:"cdkeys_link" json:"cdkeys_link"`
}

// MissingLink marks a store that has no offer in an exported row.
const MissingLink = "-"

// NewGameRecord flattens an entry. Absent stores export as 0, 0 and MissingLink.
func NewGameRecord(name string, entry *GameEntry) *GameRecord {
	r := &GameRecord{Name: name}
	r.G2APrice, r.G2ASale, r.G2ALink = flattenSlot(entry.G2A)
	r.KinguinPrice, r.KinguinSale, r.KinguinLink = flattenSlot(entry.Kinguin)
	r.CDKeysPrice, r.CDKeysSale, r.CDKeysLink = flattenSlot(entry.CDKeys)
	return r
}

func flattenSlot(rec *StoreRecord) (float64, int, string) {
	if rec == nil {
		return 0, 0, MissingLink
	}
	return rec.Price, rec.Discount, rec.Link
}

// Flatten turns the map into export rows ordered by name.
func Flatten(m AggregateMap) []*GameRecord {
	out := make([]*GameRecord, 0, len(m))
	for _, title := range m.Titles() {
		out = append(out, NewGameRecord(title, m[title]))
	}
	return out
}
