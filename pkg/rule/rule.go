package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/macropower/folio/pkg/expr"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

var ErrNotCompiled = errors.New("rule missing a compiled match expression")

// Vars are the request values a [Rule] is evaluated against.
type Vars struct {
	// Page is the requested page as received from the caller.
	Page         string
	ElementCount int
}

func (v Vars) activation() map[string]any {
	return map[string]any{
		expr.VarElementCount: v.ElementCount,
		expr.VarPage:         paginator.ParsePageNumber(v.Page),
		expr.VarRawPage:      v.Page,
	}
}

// Rule uses a CEL matcher to determine if its options should be applied to
// a request.
//
// CEL expressions have access to variables:
//   - `elementCount` (int): Total number of elements in the list
//   - `page` (int): Requested page number, normalized to at least 1
//   - `rawPage` (string): Requested page as received from the caller
//
// CEL expressions must return a boolean value:
//   - elementCount > 10000 - true for very long lists
//   - pageCount(elementCount, 15) <= 7 - true if all pages fit on one line
//   - page == 1 - true if the first page was requested
//   - !rawPage.matches("^[0-9]+$") - true if the page input was not a number
//
// Besides `pageCount`, CEL provides standard functions like `contains`,
// `startsWith` and `matches`, the math functions `math.least` and
// `math.greatest`, and logical operators like `&&`, `||`, and `!`.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for matching requests.

	// Match is a CEL expression to match requests.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// Comma-separated decorator names used when this rule matches.
	Decorators string `json:"decorators,omitempty" jsonschema:"title=Decorators"`
	// Number of elements shown on one page when this rule matches.
	ItemsPerPage int `json:"itemsPerPage,omitempty" jsonschema:"title=Items Per Page,minimum=1"`
}

// New creates a new rule with the given match expression.
func New(match string, opts ...Opt) (*Rule, error) {
	r := &Rule{Match: match}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.CompileMatch(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(match string, opts ...Opt) *Rule {
	r, err := New(match, opts...)
	if err != nil {
		panic(err)
	}

	return r
}

// Opt configures a [Rule].
type Opt func(*Rule)

// WithDecorators sets the decorator chain, innermost first.
func WithDecorators(names ...string) Opt {
	return func(r *Rule) {
		r.Decorators = strings.Join(names, ",")
	}
}

// WithItemsPerPage sets the page size.
func WithItemsPerPage(n int) Opt {
	return func(r *Rule) {
		r.ItemsPerPage = n
	}
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram != nil {
		return nil
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return fmt.Errorf("create CEL environment: %w", err)
	}

	program, err := env.Compile(r.Match)
	if err != nil {
		return fmt.Errorf("compile match expression: %w", err)
	}

	r.matchProgram = program

	return nil
}

// Matches evaluates the rule against v. Evaluation errors, e.g. an invalid
// page size passed to `pageCount`, are treated as a non-match.
func (r *Rule) Matches(v Vars) (bool, error) {
	if r.matchProgram == nil {
		return false, ErrNotCompiled
	}

	result, _, err := r.matchProgram.Eval(v.activation())
	if err != nil {
		slog.Debug("rule evaluation failed",
			slog.String("match", r.Match),
			slog.Any("err", err),
		)

		return false, nil
	}

	b, ok := result.Value().(bool)

	return ok && b, nil
}

// Overrides returns the options set by the rule, keyed like a
// [factory.ConfigFactory] expects them.
func (r *Rule) Overrides() provider.Map {
	m := provider.Map{}
	if r.ItemsPerPage != 0 {
		m[factory.KeyItemsPerPage] = r.ItemsPerPage
	}
	if r.Decorators != "" {
		m[factory.KeyDecorators] = r.Decorators
	}

	return m
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %v", r.Match, r.Overrides())
}

// Set is an ordered list of rules.
type Set []*Rule

// CompileMatch compiles the match expression of every rule.
func (s Set) CompileMatch() error {
	for i, r := range s {
		err := r.CompileMatch()
		if err != nil {
			return fmt.Errorf("rule %d (%q): %w", i, r.Match, err)
		}
	}

	return nil
}

// Find returns the first rule matching v, or nil if there is none.
func (s Set) Find(v Vars) (*Rule, error) {
	for _, r := range s {
		ok, err := r.Matches(v)
		if err != nil {
			return nil, err
		}
		if ok {
			return r, nil
		}
	}

	return nil, nil //nolint:nilnil // No match is not an error.
}

// Resolve returns p layered below the options of the first rule matching v,
// or p itself when no rule matches.
//
//nolint:ireturn // Providers are polymorphic.
func (s Set) Resolve(p provider.Provider, v Vars) (provider.Provider, error) {
	r, err := s.Find(v)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return p, nil
	}

	slog.Debug("rule matched",
		slog.String("match", r.Match),
		slog.Int("elements", v.ElementCount),
	)

	return provider.Layers{r.Overrides(), p}, nil
}
