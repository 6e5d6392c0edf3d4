// Package childmap implements the keyed container mapping a folder's child
// component names to child values. It is a thin collaborator: fast
// insert/remove/lookup/iterate by key and nothing else. Callers are
// responsible for any synchronization; a Map is safe to use only while the
// caller holds whatever lock protects it (the owning node's read or write
// lock, in this repository).
package childmap

// Map is a generic keyed container. The zero value is not usable; use New.
type Map[V any] struct {
	m map[string]V
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{m: make(map[string]V)}
}

// Get returns the value stored under name and whether it was present.
func (m *Map[V]) Get(name string) (V, bool) {
	v, ok := m.m[name]
	return v, ok
}

// Insert stores v under name, overwriting any existing entry.
func (m *Map[V]) Insert(name string, v V) {
	m.m[name] = v
}

// Remove deletes the entry under name, if any, and reports whether it was
// present.
func (m *Map[V]) Remove(name string) bool {
	if _, ok := m.m[name]; !ok {
		return false
	}
	delete(m.m, name)
	return true
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.m)
}

// Names returns the stored keys. Order is unspecified.
func (m *Map[V]) Names() []string {
	names := make([]string, 0, len(m.m))
	for k := range m.m {
		names = append(names, k)
	}
	return names
}

// Each calls f once per entry. f must not mutate the map.
func (m *Map[V]) Each(f func(name string, v V)) {
	for k, v := range m.m {
		f(k, v)
	}
}
