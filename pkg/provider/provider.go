// Package provider defines the narrow key-value configuration contract read
// by pagination decorators and factories, along with typed accessors.
//
// Implementations only need to answer lookups; parsing the underlying
// configuration files is the job of their owners (see the config package,
// or [Viper] for applications already using spf13/viper).
package provider

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ErrMissingKey is returned by [Provider.Get] when a key is not present.
var ErrMissingKey = errors.New("missing configuration key")

// Provider is a read-only key-value configuration source.
type Provider interface {
	// Get returns the value for key, or an error wrapping [ErrMissingKey]
	// if the key is absent.
	Get(key string) (any, error)
	// Lookup returns the value for key, and false instead of failing when
	// the key is absent.
	Lookup(key string) (any, bool)
}

// Int reads an integer option, returning def when the key is absent.
func Int(p Provider, key string, def int) (int, error) {
	v, ok := p.Lookup(key)
	if !ok || v == nil {
		return def, nil
	}

	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", key, err)
	}

	return n, nil
}

// Bool reads a boolean option, returning def when the key is absent.
func Bool(p Provider, key string, def bool) (bool, error) {
	v, ok := p.Lookup(key)
	if !ok || v == nil {
		return def, nil
	}

	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := cast.ToBoolE(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("option %q: %q is not a boolean", key, b)
		}

		return parsed, nil
	}

	// cast would also accept numbers, which are not booleans in YAML.
	return false, fmt.Errorf("option %q: %T is not a boolean", key, v)
}

// String reads a string option, returning def when the key is absent.
func String(p Provider, key, def string) (string, error) {
	v, ok := p.Lookup(key)
	if !ok || v == nil {
		return def, nil
	}

	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}

	return "", fmt.Errorf("option %q: %T is not a string", key, v)
}

// Strings reads a list option. Both YAML sequences and comma-separated
// strings are accepted; blank items are dropped.
func Strings(p Provider, key string) ([]string, error) {
	v, ok := p.Lookup(key)
	if !ok || v == nil {
		return nil, nil
	}

	var raw []string

	switch l := v.(type) {
	case string:
		raw = strings.Split(l, ",")
	case []string:
		raw = l
	case []any:
		for i, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option %q: item %d: %T is not a string", key, i, item)
			}

			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("option %q: %T is not a list", key, v)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	return out, nil
}

// Sub returns the nested section stored under key. The second value is false
// when the key is absent.
func Sub(p Provider, key string) (Provider, bool, error) {
	v, ok := p.Lookup(key)
	if !ok || v == nil {
		return nil, false, nil
	}

	sub, ok := section(v)
	if !ok {
		return nil, false, fmt.Errorf("section %q: %T is not a mapping", key, v)
	}

	return sub, true, nil
}

//nolint:ireturn // Sections are polymorphic.
func section(v any) (Provider, bool) {
	switch s := v.(type) {
	case Provider:
		return s, true
	case map[string]any:
		return Map(s), true
	case map[any]any:
		m := make(Map, len(s))
		for k, val := range s {
			m[fmt.Sprint(k)] = val
		}

		return m, true
	}

	return nil, false
}

// toInt converts v with [cast.ToIntE], rejecting the values cast would
// silently truncate or misread: booleans, fractional floats and unsigned
// values above [math.MaxInt].
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case bool:
		return 0, fmt.Errorf("%T is not an integer", v)
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt || n < math.MinInt {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
	case uint:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", n)
		}
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", n)
		}
	case string:
		v = strings.TrimSpace(n)
	}

	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%v is not an integer: %w", v, err)
	}

	return i, nil
}
