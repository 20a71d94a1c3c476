package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/folio/api"
	"github.com/macropower/folio/api/v1beta1"
	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/provider"
	"github.com/macropower/folio/pkg/rule"
	"github.com/macropower/folio/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -o config.v1beta1.json

const (
	Kind = "Configuration"

	DefaultDecorators = "slider,boundary,prevNext,firstLast"

	schemaFile = "config.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for folio configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/"+schemaFile, schemaJSON)

	_ v1beta1.Object    = (*Config)(nil)
	_ provider.Provider = (*Config)(nil)
)

// knownKeys are the top-level keys of a [Config] document. Every other key
// is a decorator section.
var knownKeys = []string{
	"apiVersion",
	"kind",
	factory.KeyItemsPerPage,
	factory.KeyDecorators,
	"slider",
	"boundary",
	"rules",
}

// Config is folio's configuration file.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`

	// Options of custom decorators, keyed by registered name.
	Sections map[string]map[string]any `json:"-"`
	Slider   *SliderConfig             `json:"slider,omitempty"   jsonschema:"title=Slider"`
	Boundary *BoundaryConfig           `json:"boundary,omitempty" jsonschema:"title=Boundary"`
	// Rules override the decorators and page size of matching requests.
	// The first matching rule is used.
	Rules rule.Set `json:"rules,omitempty" jsonschema:"title=Rules"`
	// Comma-separated decorator names, innermost first.
	Decorators string `json:"decorators" jsonschema:"title=Decorators"`
	// Number of elements shown on one page.
	ItemsPerPage int `json:"itemsPerPage" jsonschema:"title=Items Per Page,minimum=1,default=15"`
}

type SliderConfig struct {
	// Pages shown on each side of the current page.
	Range *int `json:"range,omitempty" jsonschema:"title=Range,minimum=0,default=2"`
}

type BoundaryConfig struct {
	// Pages always shown at each end of the list.
	Range *int `json:"range,omitempty" jsonschema:"title=Range,minimum=0,default=2"`
	// Insert a gap marker between non-adjacent pages.
	Gaps *bool `json:"gaps,omitempty" jsonschema:"title=Gaps,default=true"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.ItemsPerPage == 0 {
		c.ItemsPerPage = factory.DefaultItemsPerPage
	}
	if c.Decorators == "" {
		c.Decorators = DefaultDecorators
	}

	if c.Slider == nil {
		c.Slider = &SliderConfig{}
	}
	if c.Slider.Range == nil {
		c.Slider.Range = ptr(decorator.DefaultSliderRange)
	}

	if c.Boundary == nil {
		c.Boundary = &BoundaryConfig{}
	}
	if c.Boundary.Range == nil {
		c.Boundary.Range = ptr(decorator.DefaultBoundaryRange)
	}
	if c.Boundary.Gaps == nil {
		c.Boundary.Gaps = ptr(true)
	}
}

// UnmarshalYAML decodes the typed fields of the document and collects every
// other top-level mapping into [Config.Sections].
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	type plain Config

	err := unmarshal((*plain)(c))
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	var raw map[string]any

	err = unmarshal(&raw)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	for key, value := range raw {
		if slices.Contains(knownKeys, key) {
			continue
		}

		section, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("section %q: %T is not a mapping", key, value)
		}

		if c.Sections == nil {
			c.Sections = map[string]map[string]any{}
		}

		c.Sections[key] = section
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)

	jss.AdditionalProperties = &jsonschema.Schema{
		Type:        "object",
		Title:       "Decorator Options",
		Description: "Options of a custom decorator, keyed by its registered name.",
	}
	jss.Required = []string{"apiVersion", "kind"}
}

// Lookup implements [provider.Provider]. The "slider" and "boundary" keys
// and all [Config.Sections] are returned as nested providers.
func (c *Config) Lookup(key string) (any, bool) {
	switch key {
	case "apiVersion":
		return c.APIVersion, true
	case "kind":
		return c.Kind, true
	case factory.KeyItemsPerPage:
		return c.ItemsPerPage, true
	case factory.KeyDecorators:
		return c.Decorators, true
	case "slider":
		if c.Slider == nil {
			return nil, false
		}

		m := provider.Map{}
		if c.Slider.Range != nil {
			m["range"] = *c.Slider.Range
		}

		return m, true
	case "boundary":
		if c.Boundary == nil {
			return nil, false
		}

		m := provider.Map{}
		if c.Boundary.Range != nil {
			m["range"] = *c.Boundary.Range
		}
		if c.Boundary.Gaps != nil {
			m["gaps"] = *c.Boundary.Gaps
		}

		return m, true
	}

	section, ok := c.Sections[key]
	if !ok {
		return nil, false
	}

	return provider.Map(section), true
}

// Resolve returns the options for the request described by v: the options
// of the first matching rule, layered above the config.
//
//nolint:ireturn // Providers are polymorphic.
func (c *Config) Resolve(v rule.Vars) (provider.Provider, error) {
	p, err := c.Rules.Resolve(c, v)
	if err != nil {
		return nil, fmt.Errorf("resolve rules: %w", err)
	}

	return p, nil
}

// Get implements [provider.Provider].
func (c *Config) Get(key string) (any, error) {
	v, ok := c.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", provider.ErrMissingKey, key)
	}

	return v, nil
}

// MarshalYAML encodes the config, including its sections.
func (c *Config) MarshalYAML() ([]byte, error) {
	type plain Config

	b, err := yaml.Marshal((*plain)(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	if len(c.Sections) == 0 {
		return b, nil
	}

	b, err = yaml.MergeInto(b, c.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}

	return b, nil
}

// Write writes the config to path. An existing file is replaced only when
// force is set.
func (c *Config) Write(path string, force bool) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	_, err = api.WriteFile(path, b, force)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to path, and the JSON
// schema next to it.
func WriteDefault(path string, force bool) error {
	_, err := api.WriteFile(path, defaultConfigYAML, force)
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	err = os.WriteFile(SchemaPath(path), schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

// Default returns the embedded default config.yaml.
func Default() []byte {
	return slices.Clone(defaultConfigYAML)
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return slices.Clone(schemaJSON)
}

// GetPath returns the path to the user's configuration file.
func GetPath() string {
	return api.ConfigPath("config.yaml")
}

// SchemaPath returns the path of the JSON schema written next to the config
// file at path.
func SchemaPath(path string) string {
	return filepath.Join(filepath.Dir(path), schemaFile)
}

func ptr[T any](v T) *T {
	return &v
}
