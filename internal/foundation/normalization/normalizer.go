// Package normalization maps free-form user input onto closed sets of values.
package normalization

import (
	"sort"
	"strings"
)

// Normalizer maps case- and whitespace-insensitive spellings to enum values. Several
// spellings may map to the same value.
type Normalizer[T comparable] struct {
	values map[string]T
	keys   []string // sorted, for messages
}

// NewNormalizer builds a normalizer from spelling -> value pairs. Keys are normalized too.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

// Lookup returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[clean(raw)]
	return v, ok
}

// Keys returns every accepted spelling, sorted.
func (n *Normalizer[T]) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
