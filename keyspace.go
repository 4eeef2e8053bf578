package seq

import (
	"slices"
	"strings"
)

// keyspace maps sequence names to backend keys under an optional prefix.
type keyspace struct {
	prefix string
}

// scope is the key prefix shared by every sequence in the keyspace.
func (k keyspace) scope() string {
	if k.prefix == "" {
		return ""
	}
	return k.prefix + ":"
}

func (k keyspace) key(name string) string {
	return k.scope() + name
}

func (k keyspace) keys(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, k.key(name))
	}
	return out
}

// name reverses key, reporting false for keys outside the keyspace.
func (k keyspace) name(key string) (string, bool) {
	return strings.CutPrefix(key, k.scope())
}

// names collects the sequence names behind keys in sorted order.
func (k keyspace) names(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if name, ok := k.name(key); ok {
			out = append(out, name)
		}
	}
	return sortedNames(out)
}

func sortedNames(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}
