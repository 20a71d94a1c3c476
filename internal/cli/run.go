package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/folio/pkg/config"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/mcp"
	"github.com/macropower/folio/pkg/pagination"
	"github.com/macropower/folio/pkg/provider"
	"github.com/macropower/folio/pkg/rule"
	"github.com/macropower/folio/pkg/telemetry"
	"github.com/macropower/folio/pkg/version"
	"github.com/macropower/folio/pkg/yaml"
)

const (
	cmdExamples = `  # Navigation for page 3 of a list with 100 elements:
  folio 100 3

  # Raw page input is normalized, invalid values select the first page:
  folio 100 abc

  # Override the configured chain and page size:
  folio 12345 50 --per-page 100 --decorators slider,boundary

  # Print JSON instead of YAML:
  folio 100 3 -o json

  # Serve the paginate tool over MCP on stdio, reloading on config changes:
  folio --serve-mcp stdio --watch

  # Serve the paginate tool over streamable HTTP:
  folio --serve-mcp localhost:8080`

	outputYAML = "yaml"
	outputJSON = "json"

	// mcpStdio selects the stdio transport for --serve-mcp.
	mcpStdio = "stdio"
)

var outputFormats = []string{outputYAML, outputJSON}

type RunArgs struct {
	*RootArgs

	ConfigPath    string
	Output        string
	ServeMCP      string
	OTLPEndpoint  string
	Page          string
	Decorators    []string
	Elements      int
	PerPage       int
	SliderRange   int
	BoundaryRange int
	Gaps          bool
	OTLPInsecure  bool
	Watch         bool
	WriteConfig   bool
	ShowConfig    bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&ra.ConfigPath, "config", "", "Path to the folio configuration file")
	flags.StringVarP(&ra.Output, "output", "o", outputYAML, fmt.Sprintf("Output format, one of: %s", outputFormats))
	flags.IntVar(&ra.PerPage, "per-page", factory.DefaultItemsPerPage, "Number of elements on one page")
	flags.StringSliceVar(&ra.Decorators, "decorators", nil, "Decorator names, innermost first")
	flags.IntVar(&ra.SliderRange, "slider-range", 2, "Pages shown on each side of the current page")
	flags.IntVar(&ra.BoundaryRange, "boundary-range", 2, "Pages always shown at each end of the list")
	flags.BoolVar(&ra.Gaps, "gaps", true, "Insert gap markers between non-adjacent pages")
	flags.StringVar(&ra.ServeMCP, "serve-mcp", "", `Serve the MCP server at the specified address, or "stdio"`)
	flags.BoolVarP(&ra.Watch, "watch", "w", false, "Reload the configuration file when it changes (with --serve-mcp)")
	flags.StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP/gRPC endpoint receiving traces")
	flags.BoolVar(&ra.OTLPInsecure, "otlp-insecure", false, "Disable TLS for the OTLP connection")
	flags.BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	flags.BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("decorators", decoratorCompletion)
	if err != nil {
		panic(err)
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [elements] [page]",
		Short:             "Default command, can be used explicitly",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid argument %q: element count must be an integer", args[0])
				}

				ra.Elements = n
			}
			if len(args) > 1 {
				ra.Page = args[1]
			}

			needsElements := !ra.WriteConfig && !ra.ShowConfig && ra.ServeMCP == ""
			if needsElements && len(args) == 0 {
				return errors.New("requires the element count argument")
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func decoratorCompletion(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return slices.Sorted(maps.Keys(factory.Builtins())), cobra.ShellCompDirectiveNoFileComp
}

// overrides returns the configuration options set by flags or environment
// variables.
func (ra *RunArgs) overrides(cmd *cobra.Command) provider.Map {
	flags := cmd.Flags()
	m := provider.Map{}

	if flags.Changed("per-page") {
		m[factory.KeyItemsPerPage] = ra.PerPage
	}
	if flags.Changed("decorators") {
		m[factory.KeyDecorators] = ra.Decorators
	}
	if flags.Changed("slider-range") {
		m["slider"] = provider.Map{"range": ra.SliderRange}
	}

	boundary := provider.Map{}
	if flags.Changed("boundary-range") {
		boundary["range"] = ra.BoundaryRange
	}
	if flags.Changed("gaps") {
		boundary["gaps"] = ra.Gaps
	}
	if len(boundary) > 0 {
		m["boundary"] = boundary
	}

	return m
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()

	if !slices.Contains(outputFormats, ra.Output) {
		return fmt.Errorf("invalid argument %q for --output, want one of %s", ra.Output, outputFormats)
	}

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefault(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	cfg, err := config.Load(configPath, config.WithColoredErrors(isTerminal(cmd.ErrOrStderr())))
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		cfg = config.New()
	} else if err != nil {
		return fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		return write(cmd.OutOrStdout(), outputYAML, b)
	}

	shutdown, err := telemetry.Setup(ctx, ra.OTLPEndpoint,
		telemetry.WithServiceName(cmdName),
		telemetry.WithServiceVersion(version.GetVersion()),
		telemetry.WithInsecure(ra.OTLPInsecure),
	)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}

	defer func() {
		err := shutdown(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("shut down tracing", slog.Any("err", err))
		}
	}()

	overrides := ra.overrides(cmd)

	if ra.ServeMCP != "" {
		return serveMCP(ctx, ra, configPath, cfg, overrides)
	}

	p, err := cfg.Resolve(rule.Vars{ElementCount: ra.Elements, Page: ra.Page})
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	f, err := factory.NewConfigFactory(provider.Layers{overrides, p})
	if err != nil {
		return fmt.Errorf("configure paginator: %w", err)
	}

	res, err := pagination.New(f).Run(ctx, pagination.Request{
		ElementCount: ra.Elements,
		Page:         ra.Page,
	})
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	b, err := encode(res, ra.Output)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), ra.Output, b)
}

func serveMCP(ctx context.Context, ra *RunArgs, configPath string, cfg *config.Config, overrides provider.Map) error {
	addr := ra.ServeMCP
	if addr == mcpStdio {
		addr = ""
	}

	server, err := mcp.NewServer(addr, cfg,
		mcp.WithOverrides(overrides),
		mcp.WithRules(cfg.Rules),
	)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	if ra.Watch {
		w, err := config.NewWatcher(configPath, server.Reload,
			config.WithLoaderOpts(config.WithColoredErrors(false)),
		)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}

		defer func() {
			err := w.Close()
			if err != nil {
				slog.Error("close config watcher", slog.Any("err", err))
			}
		}()

		go w.Run(ctx)
	}

	err = server.Serve(ctx)
	if err != nil {
		return fmt.Errorf("MCP server failure: %w", err)
	}

	return nil
}

func encode(res *pagination.Result, format string) ([]byte, error) {
	if format == outputJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}

		return append(b, '\n'), nil
	}

	b, err := yaml.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// write writes b to w, highlighted if w is a terminal.
func write(w io.Writer, format string, b []byte) error {
	if isTerminal(w) {
		return yaml.NewHighlighter().Highlight(w, format, b) //nolint:wrapcheck // Already descriptive.
	}

	_, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
