package provider

import "fmt"

// Map is a [Provider] backed by an in-memory map, e.g. decoded YAML.
// Nested map[string]any values are exposed as sections via [Sub].
type Map map[string]any

func (m Map) Get(key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}

	return v, nil
}

func (m Map) Lookup(key string) (any, bool) {
	v, ok := m[key]

	return v, ok
}
