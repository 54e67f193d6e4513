// Package scripting runs world definition scripts in a sandboxed GopherLua
// VM. Scripts are declarative: they build tables and assign globals, which
// are read back as plain Go values. The package has no dependency on game
// domain packages.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a script may
// execute when no override is configured.
const DefaultInstructionLimit = 1_000_000

// ErrGlobalMissing is returned by Eval when the script did not assign the
// requested global.
var ErrGlobalMissing = errors.New("global not defined by script")

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Globals that reach outside the VM removed
//   - Execution limited to at most instLimit Lua opcodes
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState. The caller must call L.Close().
func NewSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal", "collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	// Scripts must produce the same world on every load.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}

	ctx, _ := newCountingContext(limit) //nolint:govet // cancel fires when the limit is reached
	L.SetContext(ctx)
	return L
}

// Eval runs src in a fresh sandbox and returns the named global converted
// with ToGo. name labels errors.
//
// Postcondition: the VM is closed before Eval returns.
func Eval(src, name, global string, instLimit int) (any, error) {
	L := NewSandboxedState(instLimit)
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	v := L.GetGlobal(global)
	if v == lua.LNil {
		return nil, fmt.Errorf("%s: %q: %w", name, global, ErrGlobalMissing)
	}
	return ToGo(v), nil
}

// ToGo converts a Lua value to plain Go values. Integral numbers become int.
// Tables with a sequence part become []any, other tables map[string]any
// keyed by their string keys, and empty tables nil.
func ToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if n := val.MaxN(); n > 0 {
			arr := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, ToGo(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = ToGo(v)
			}
		})
		if len(m) == 0 {
			return nil
		}
		return m
	default:
		return nil
	}
}
