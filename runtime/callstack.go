package runtime

// DefaultCallLimit is the nesting depth of [[Call]] and [[Construct]] a new
// realm allows.
const DefaultCallLimit = 512

// CallStack counts the [[Call]] and [[Construct]] activations in progress
// in a realm, script and native functions alike, so runaway recursion
// becomes a RangeError instead of a Go stack overflow.
type CallStack struct {
	Limit int
	// OnOverflow, if set, is told when a call is refused.
	OnOverflow func(limit int)

	depth int
}

// Enter records a new activation, or refuses it with a RangeError once
// Limit activations are live.
func (s *CallStack) Enter() error {
	if s.depth >= s.Limit {
		if s.OnOverflow != nil {
			s.OnOverflow(s.Limit)
		}
		return NewRangeError("Maximum call stack size exceeded")
	}
	s.depth++
	return nil
}

func (s *CallStack) Exit() {
	s.depth--
}

// Depth is the number of live activations.
func (s *CallStack) Depth() int {
	return s.depth
}
