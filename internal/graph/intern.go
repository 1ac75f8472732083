package graph

import (
	"github.com/cespare/xxhash/v2"

	"github.com/oiegrant/context-slice/internal/types"
)

// internEntry resolves hash collisions the way the teacher's
// hash-bucketed indices do (internal/core/symbol_location_index.go):
// store the full key alongside the dense index so two different ids
// hashing to the same bucket are still distinguishable.
type internEntry struct {
	id    types.SymbolID
	index uint32
}

// table interns SymbolIDs to dense uint32 indices, giving adjacency
// arrays O(1) average lookups instead of map[string]-keyed lookups on the
// hot traversal path. This is the teacher's CompositeSymbolID technique —
// a compact integer standing in for a string identifier — applied one
// layer down: the public types.SymbolID stays a human-legible string (per
// the wire grammar in spec.md §6), and only this internal table uses the
// dense encoding.
type table struct {
	buckets map[uint64][]internEntry
	ids     []types.SymbolID // index -> id, for reverse lookups
}

func newTable(sizeHint int) *table {
	return &table{
		buckets: make(map[uint64][]internEntry, sizeHint),
		ids:     make([]types.SymbolID, 0, sizeHint),
	}
}

// intern returns the dense index for id, assigning a new one on first use.
func (t *table) intern(id types.SymbolID) uint32 {
	h := xxhash.Sum64String(string(id))
	for _, e := range t.buckets[h] {
		if e.id == id {
			return e.index
		}
	}
	idx := uint32(len(t.ids))
	t.ids = append(t.ids, id)
	t.buckets[h] = append(t.buckets[h], internEntry{id: id, index: idx})
	return idx
}

// lookup returns the dense index for id without assigning one, reporting
// whether id has been interned.
func (t *table) lookup(id types.SymbolID) (uint32, bool) {
	h := xxhash.Sum64String(string(id))
	for _, e := range t.buckets[h] {
		if e.id == id {
			return e.index, true
		}
	}
	return 0, false
}
