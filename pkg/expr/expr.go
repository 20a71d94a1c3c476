package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Variable names declared by [CreateEnvironment].
const (
	VarElementCount = "elementCount"
	VarPage         = "page"
	VarRawPage      = "rawPage"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] with the request variables
// declared.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := CreateEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// CreateEnvironment creates a [*cel.Env] declaring the request variables and
// the folio function library.
func CreateEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append([]cel.EnvOption{
		cel.Variable(VarElementCount, cel.IntType),
		cel.Variable(VarPage, cel.IntType),
		cel.Variable(VarRawPage, cel.StringType),
		cel.Lib(&lib{}),
	}, opts...)

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression that must evaluate to a boolean and
// returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile expression: want bool result, got %s", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}
