package config

import (
	"bytes"
	"fmt"

	"github.com/macropower/folio/api"
	"github.com/macropower/folio/api/v1beta1"
	"github.com/macropower/folio/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	kinds     []string
	colored   bool
}

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithKinds sets the kinds accepted by [Loader.Load].
func WithKinds(kinds ...string) LoaderOpt {
	return func(o *loaderOptions) {
		o.kinds = kinds
	}
}

// WithColoredErrors enables ANSI colors in the source excerpts of errors.
func WithColoredErrors(enabled bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.colored = enabled
	}
}

// Loader validates and decodes a configuration document of type T.
// Errors point at the offending location of the document.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	kinds     []string
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] for data. The newFunc parameter is
// the constructor of an empty T.
func NewLoaderFromBytes[T v1beta1.Object](data []byte, newFunc func() T, opts ...LoaderOpt) *Loader[T] {
	options := &loaderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		kinds:     options.kinds,
		yamlError: yaml.NewErrorWrapper(
			yaml.WithSource(data),
			yaml.WithColor(options.colored),
		),
	}
}

// NewLoaderFromFile creates a [Loader] for the file at path.
func NewLoaderFromFile[T v1beta1.Object](path string, newFunc func() T, opts ...LoaderOpt) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, opts...), nil
}

// Validate validates the document without decoding it into a T.
func (l *Loader[T]) Validate() error {
	if l.validator == nil {
		return nil
	}

	var doc any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&doc)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	err = l.validator.Validate(doc)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Load validates and decodes the document, then applies defaults.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	err := l.Validate()
	if err != nil {
		return zero, err
	}

	obj := l.newFunc()

	err = yaml.NewDecoder(bytes.NewReader(l.data)).Decode(obj)
	if err != nil {
		return zero, l.yamlError.Wrap(err)
	}

	if len(l.kinds) > 0 {
		tm := v1beta1.TypeMeta{APIVersion: obj.GetAPIVersion(), Kind: obj.GetKind()}

		err = tm.Check(l.kinds...)
		if err != nil {
			return zero, err //nolint:wrapcheck // Already descriptive.
		}
	}

	obj.EnsureDefaults()

	return obj, nil
}

// Load reads, validates and decodes the [Config] at path.
func Load(path string, opts ...LoaderOpt) (*Config, error) {
	opts = append([]LoaderOpt{
		WithValidator(DefaultValidator),
		WithKinds(ValidKinds...),
	}, opts...)

	l, err := NewLoaderFromFile(path, func() *Config { return &Config{} }, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	err = c.Rules.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return c, nil
}

// Parse validates and decodes a [Config] from data.
func Parse(data []byte, opts ...LoaderOpt) (*Config, error) {
	opts = append([]LoaderOpt{
		WithValidator(DefaultValidator),
		WithKinds(ValidKinds...),
	}, opts...)

	c, err := NewLoaderFromBytes(data, func() *Config { return &Config{} }, opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	err = c.Rules.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return c, nil
}
