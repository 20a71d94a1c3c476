// Command schemagen writes the JSON schema of folio's configuration file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/macropower/folio/pkg/config"
	"github.com/macropower/folio/pkg/yaml"
)

const modulePath = "github.com/macropower/folio"

var cli struct {
	OutFile string `default:"config.v1beta1.json" help:"Output file for the generated schema" short:"o"`
	Root    string `default:"../.."               help:"Path to the module root"`
}

func main() {
	cliCtx := kong.Parse(&cli)

	outFile, err := filepath.Abs(cli.OutFile)
	cliCtx.FatalIfErrorf(err)

	// Comments are looked up by import path, so read them from the root.
	err = os.Chdir(cli.Root)
	cliCtx.FatalIfErrorf(err)

	gen := yaml.NewSchemaGenerator(config.New(),
		yaml.WithGoComments(modulePath, "./pkg/config"),
		yaml.WithGoComments(modulePath, "./api/v1beta1"),
	)

	jsData, err := gen.Generate()
	if err != nil {
		cliCtx.FatalIfErrorf(fmt.Errorf("generate JSON schema: %w", err))
	}

	err = os.WriteFile(outFile, jsData, 0o600)
	if err != nil {
		cliCtx.FatalIfErrorf(fmt.Errorf("write schema file: %w", err))
	}
}
