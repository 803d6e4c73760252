package ast

// Scope is the static description of a program, eval or function body
// that declaration binding instantiation works from.
type Scope struct {
	Params []string
	// VarNames lists var-declared names once each, in source order.
	VarNames []string
	// Functions lists the function declarations in source order. For
	// repeated names the later declaration wins at instantiation.
	Functions []*FunctionDeclaration `json:"-"`
	Strict    bool

	// UsesArguments is set when the body mentions "arguments" outside
	// nested functions.
	UsesArguments bool
	// UsesEval is set when the body calls a function named "eval".
	UsesEval bool
	HasWith  bool
}

// DeclaresVar reports whether name is a var-declared name of s.
func (s *Scope) DeclaresVar(name string) bool {
	for _, v := range s.VarNames {
		if v == name {
			return true
		}
	}
	return false
}

// NeedsArguments reports whether function instantiation must create an
// arguments object.
func (s *Scope) NeedsArguments() bool {
	return s.UsesArguments || s.UsesEval
}
