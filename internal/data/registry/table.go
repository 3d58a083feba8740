package registry

import (
	"fmt"

	"github.com/zjrosen/starforge/internal/data/entities"
)

// DuplicateIDError reports a duplicate id discovered while indexing.
// The merge engine cannot emit duplicates and the validator re-checks, so
// hitting this means a pipeline bug rather than bad data.
type DuplicateIDError struct {
	Collection entities.Collection
	ID         string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q while indexing", e.Collection, e.ID)
}

// Table is one collection's bidirectional id<->index mapping plus its
// records. Index assignment follows the merge engine's stable iteration
// order. Tables are immutable after construction.
type Table[ID ~string, T entities.Identified] struct {
	records []T
	index   map[ID]Ref[ID]
}

func newTable[ID ~string, T entities.Identified](col entities.Collection, records []T) (Table[ID, T], error) {
	t := Table[ID, T]{
		records: records,
		index:   make(map[ID]Ref[ID], len(records)),
	}
	for i, item := range records {
		id := ID(item.EntityID())
		if _, exists := t.index[id]; exists {
			return Table[ID, T]{}, &DuplicateIDError{Collection: col, ID: item.EntityID()}
		}
		t.index[id] = Ref[ID](i)
	}
	return t, nil
}

// Resolve maps an id to its dense index.
func (t Table[ID, T]) Resolve(id ID) (Ref[ID], bool) {
	ref, ok := t.index[id]
	return ref, ok
}

// Get returns the record at ref.
func (t Table[ID, T]) Get(ref Ref[ID]) (T, bool) {
	if ref < 0 || int(ref) >= len(t.records) {
		var zero T
		return zero, false
	}
	return t.records[ref], true
}

// ByID combines Resolve and Get.
func (t Table[ID, T]) ByID(id ID) (T, bool) {
	ref, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.records[ref], true
}

// Len returns the number of records.
func (t Table[ID, T]) Len() int { return len(t.records) }

// All returns the records in stable display order. Callers must treat the
// slice as read-only.
func (t Table[ID, T]) All() []T { return t.records }
