package interpreter

import (
	"github.com/example/es5go/ast"
	"github.com/example/es5go/runtime"
)

// Mode is the kind of a statement completion.
type Mode uint8

const (
	Normal Mode = iota
	Break
	Continue
	Return
	Throw
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	case Throw:
		return "throw"
	}
	return "unknown"
}

// Completion is the result of executing a statement.
type Completion struct {
	Mode  Mode
	Value runtime.Value
	// Empty marks a completion without a value; Value is then undefined.
	Empty bool
	// Target is the statement a Break or Continue leaves.
	Target ast.TargetID
	// Err is the pending error of a Throw completion. It becomes a script
	// value only when a catch clause or the embedder asks for it.
	Err error
}

var emptyCompletion = Completion{Mode: Normal, Empty: true}

func normalCompletion(v runtime.Value) Completion {
	return Completion{Mode: Normal, Value: v}
}

func throwCompletion(err error) Completion {
	return Completion{Mode: Throw, Empty: true, Err: err}
}

// Abrupt reports whether c is anything but a normal completion.
func (c Completion) Abrupt() bool { return c.Mode != Normal }

// targets reports whether a Break or Continue completion leaves the
// statement id. Untargeted completions leave the nearest statement.
func (c Completion) targets(id ast.TargetID) bool {
	return c.Target == 0 || c.Target == id
}

// orValue fills in an empty completion value.
func (c Completion) orValue(v runtime.Value, empty bool) Completion {
	if c.Empty && !empty {
		c.Value = v
		c.Empty = false
	}
	return c
}

// loopContinues decides whether an iteration statement runs its next
// iteration after its body completed with c.
func loopContinues(c Completion, id ast.TargetID) bool {
	switch c.Mode {
	case Normal:
		return true
	case Continue:
		return c.targets(id)
	}
	return false
}
