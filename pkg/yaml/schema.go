package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value. Field descriptions
// are taken from the doc comments of the registered packages.
type SchemaGenerator struct {
	v        any
	comments []goComments
}

type goComments struct {
	base string
	dir  string
}

// SchemaGeneratorOpt configures a [SchemaGenerator].
type SchemaGeneratorOpt func(*SchemaGenerator)

// WithGoComments reads the doc comments of the packages below the relative
// source directory dir. The import path of each package must equal base
// joined with its directory, so base is usually the module path and dir is
// relative to the module root.
func WithGoComments(base, dir string) SchemaGeneratorOpt {
	return func(g *SchemaGenerator) {
		g.comments = append(g.comments, goComments{base: base, dir: dir})
	}
}

func NewSchemaGenerator(v any, opts ...SchemaGeneratorOpt) *SchemaGenerator {
	g := &SchemaGenerator{v: v}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the indented JSON schema, terminated by a newline.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
	}

	for _, c := range g.comments {
		err := r.AddGoComments(c.base, c.dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments from %s: %w", c.dir, err)
		}
	}

	jss := r.Reflect(g.v)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
