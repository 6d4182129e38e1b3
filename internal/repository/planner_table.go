package repository

import (
	"slices"

	"github.com/google/uuid"
)

// table is an insertion-ordered id→record map that remembers every id it has ever
// handed out, so ids are never reused after a delete.
type table[T any] struct {
	rows   map[string]T
	order  []string
	issued map[string]struct{}
	prefix string
}

func newTable[T any](prefix string) table[T] {
	return table[T]{
		rows:   make(map[string]T),
		issued: make(map[string]struct{}),
		prefix: prefix,
	}
}

func (t *table[T]) newID() string {
	for {
		id := t.prefix + uuid.NewString()
		if _, taken := t.issued[id]; !taken {
			return id
		}
	}
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// put inserts or replaces; new ids go to the end of the insertion order.
func (t *table[T]) put(id string, row T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
	t.issued[id] = struct{}{}
}

func (t *table[T]) remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		delete(t.rows, id)
		drop[id] = struct{}{}
	}
	t.order = slices.DeleteFunc(t.order, func(id string) bool {
		_, ok := drop[id]
		return ok
	})
}

// values copies the rows in insertion order.
func (t *table[T]) values() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) len() int {
	return len(t.order)
}

// collect returns the ids of rows matching fn in insertion order.
func (t *table[T]) collect(fn func(T) bool) []string {
	var ids []string
	for _, id := range t.order {
		if fn(t.rows[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *table[T]) clone() table[T] {
	out := table[T]{
		rows:   make(map[string]T, len(t.rows)),
		order:  slices.Clone(t.order),
		issued: make(map[string]struct{}, len(t.issued)),
		prefix: t.prefix,
	}
	for id, row := range t.rows {
		out.rows[id] = row
	}
	for id := range t.issued {
		out.issued[id] = struct{}{}
	}
	return out
}
