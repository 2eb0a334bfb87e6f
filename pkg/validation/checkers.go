package validation

import (
	"context"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CheckerFunc is a custom validation check. It reports whether value passes;
// a non-nil error marks the checker itself as broken and aborts validation.
type CheckerFunc func(ctx context.Context, value any) (bool, error)

// Compiled expression programs are cached process-wide: middleware builds a
// fresh engine per request, and recompiling identical sources each time
// would dominate the request cost.
var (
	programMu    sync.RWMutex
	programCache = make(map[string]*vm.Program)
)

func compileExpression(src string) (*vm.Program, error) {
	programMu.RLock()
	program, ok := programCache[src]
	programMu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile checker expression %q: %w", src, err)
	}

	programMu.Lock()
	programCache[src] = program
	programMu.Unlock()
	return program, nil
}

// ExpressionChecker compiles an expr-language source into a CheckerFunc.
// The field value is bound to the identifier `value`; the expression must
// evaluate to a boolean.
func ExpressionChecker(src string) (CheckerFunc, error) {
	program, err := compileExpression(src)
	if err != nil {
		return nil, err
	}

	return func(_ context.Context, value any) (bool, error) {
		out, err := expr.Run(program, map[string]any{"value": value})
		if err != nil {
			return false, fmt.Errorf("checker expression %q: %w", src, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return false, fmt.Errorf("checker expression %q returned %T, want bool", src, out)
		}
		return ok, nil
	}, nil
}
