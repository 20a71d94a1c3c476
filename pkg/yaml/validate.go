package yaml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded YAML documents against a JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the JSON schema in schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	schema, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates data, which must be the result of decoding YAML or
// JSON into an untyped value. Violations are returned as an [*Error] whose
// path points at the most specific failing location.
func (v *Validator) Validate(data any) error {
	data, err := normalize(data)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	err = v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  verr,
		Path: pathFromLocation(deepestLocation(verr)),
	}
}

// normalize converts data to the types produced by encoding/json, which are
// the only ones the schema validator understands (e.g. uint64 from YAML
// integers becomes json.Number).
func normalize(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	out, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	return out, nil
}

// deepestLocation returns the longest instance location among verr and its
// causes.
func deepestLocation(verr *jsonschema.ValidationError) []string {
	loc := verr.InstanceLocation

	for _, cause := range verr.Causes {
		if l := deepestLocation(cause); len(l) > len(loc) {
			loc = l
		}
	}

	return loc
}

func pathFromLocation(location []string) *yaml.Path {
	pb := NewPathBuilder().Root()

	for _, part := range location {
		if i, err := strconv.ParseUint(part, 10, 0); err == nil {
			pb = pb.Index(uint(i))

			continue
		}

		pb = pb.Child(part)
	}

	return pb.Build()
}
