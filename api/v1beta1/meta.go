// Package v1beta1 contains the metadata shared by folio's v1beta1
// configuration kinds.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version of all folio configuration kinds.
const APIVersion = "folio.jacobcolvin.com/v1beta1"

var (
	// ValidAPIVersions contains all accepted API versions.
	ValidAPIVersions = []string{APIVersion}

	ErrInvalidTypeMeta = errors.New("invalid type metadata")
)

// TypeMeta identifies the version and kind of a configuration document.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version" yaml:"apiVersion"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind" yaml:"kind"`
}

func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Check returns an error if the API version is not supported or the kind is
// not one of kinds.
func (tm TypeMeta) Check(kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, tm.APIVersion) {
		return fmt.Errorf("%w: unsupported apiVersion %q", ErrInvalidTypeMeta, tm.APIVersion)
	}
	if !slices.Contains(kinds, tm.Kind) {
		return fmt.Errorf("%w: unexpected kind %q, want one of %q", ErrInvalidTypeMeta, tm.Kind, kinds)
	}

	return nil
}

// Object is implemented by all configuration kinds.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of jss
// to the given values.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	restrict(jss, "apiVersion", apiVersions)
	restrict(jss, "kind", kinds)
}

func restrict(jss *jsonschema.Schema, property string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.Enum = append(prop.Enum, v)
	}

	_, _ = jss.Properties.Set(property, prop)
}
