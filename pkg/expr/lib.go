package expr

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `pageCount` returns the number of pages needed for a number of
		// elements. Negative element counts have no pages.
		// Example: pageCount(elementCount, 10) > 100.
		cel.Function("pageCount",
			cel.Overload("page_count_int_int", []*cel.Type{cel.IntType, cel.IntType}, cel.IntType,
				cel.BinaryBinding(func(elements, perPage ref.Val) ref.Val {
					n, ok := elements.(types.Int)
					if !ok {
						return types.NewErr("pageCount: invalid element count")
					}

					size, ok := perPage.(types.Int)
					if !ok {
						return types.NewErr("pageCount: invalid page size")
					}
					if size < 1 {
						return types.NewErr("pageCount: page size must be at least 1, got %d", size)
					}

					if n <= 0 {
						return types.Int(0)
					}

					count := n / size
					if n%size != 0 {
						count++
					}

					return count
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
