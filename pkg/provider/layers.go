package provider

import "fmt"

// Layers is a [Provider] that stacks other providers. A key is taken from
// the first layer containing it, so earlier layers override later ones.
// Sections present in several layers are merged key by key.
type Layers []Provider

func (l Layers) Get(key string) (any, error) {
	v, ok := l.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}

	return v, nil
}

func (l Layers) Lookup(key string) (any, bool) {
	var sections Layers

	for _, p := range l {
		if p == nil {
			continue
		}

		v, ok := p.Lookup(key)
		if !ok || v == nil {
			continue
		}

		sub, isSection := section(v)
		if !isSection {
			if len(sections) > 0 {
				// A scalar below a section is shadowed by it.
				break
			}

			return v, true
		}

		sections = append(sections, sub)
	}

	switch len(sections) {
	case 0:
		return nil, false
	case 1:
		return sections[0], true
	}

	return sections, true
}
