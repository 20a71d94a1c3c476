package provider

import (
	"fmt"

	"github.com/spf13/viper"
)

// Viper adapts a [*viper.Viper] to the [Provider] contract, so applications
// that already load their settings with viper can feed pagination factories
// directly. Nested keys are exposed as sections.
//
// The folio binary reads its own config file and does not use Viper; the
// adapter is part of the library API (see the package example).
type Viper struct {
	v *viper.Viper
}

// NewViper wraps v. If v is nil, the global viper instance is used.
func NewViper(v *viper.Viper) *Viper {
	if v == nil {
		v = viper.GetViper()
	}

	return &Viper{v: v}
}

func (p *Viper) Get(key string) (any, error) {
	v, ok := p.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}

	return v, nil
}

func (p *Viper) Lookup(key string) (any, bool) {
	if !p.v.IsSet(key) {
		return nil, false
	}

	if sub := p.v.Sub(key); sub != nil {
		return &Viper{v: sub}, true
	}

	return p.v.Get(key), true
}
