package token

type TokenType int

const (
	// Literals
	Illegal TokenType = iota
	EOF
	Identifier
	Number
	String
	RegExp

	// Operators
	Plus
	Minus
	Asterisk
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	AsteriskAssign
	SlashAssign
	PercentAssign
	AmpersandAssign
	PipeAssign
	CaretAssign
	LeftShiftAssign
	RightShiftAssign
	UnsignedRightShiftAssign
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Not
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	LeftShift
	RightShift
	UnsignedRightShift
	Increment
	Decrement

	// Delimiters
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Colon
	Comma
	Dot
	QuestionMark

	// Keywords
	Var
	Function
	Return
	If
	Else
	While
	For
	Do
	Break
	Continue
	Switch
	Case
	Default
	Throw
	Try
	Catch
	Finally
	New
	Delete
	Typeof
	Void
	In
	Instanceof
	This
	True
	False
	Null
	Debugger
	With

	// Reserved is a FutureReservedWord that may never be an identifier
	// (class, const, enum, export, extends, import, super).
	Reserved
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	// Offset is the byte offset of the token in the source.
	Offset int
	// End is the byte offset just past the token.
	End int
	// NewlineBefore is set when a line terminator separates the token from
	// the previous one. Automatic semicolon insertion depends on it.
	NewlineBefore bool
	// Octal marks numeric literals written in legacy octal and strings
	// containing an octal escape. Both are errors in strict code.
	Octal bool
	// Raw holds the source text of string and numeric literals, which
	// directive prologue detection needs.
	Raw string
}

var Keywords = map[string]TokenType{
	"var":        Var,
	"function":   Function,
	"return":     Return,
	"if":         If,
	"else":       Else,
	"while":      While,
	"for":        For,
	"do":         Do,
	"break":      Break,
	"continue":   Continue,
	"switch":     Switch,
	"case":       Case,
	"default":    Default,
	"throw":      Throw,
	"try":        Try,
	"catch":      Catch,
	"finally":    Finally,
	"new":        New,
	"delete":     Delete,
	"typeof":     Typeof,
	"void":       Void,
	"in":         In,
	"instanceof": Instanceof,
	"this":       This,
	"true":       True,
	"false":      False,
	"null":       Null,
	"debugger":   Debugger,
	"with":       With,

	"class":   Reserved,
	"const":   Reserved,
	"enum":    Reserved,
	"export":  Reserved,
	"extends": Reserved,
	"import":  Reserved,
	"super":   Reserved,
}

// StrictReserved lists the words that are reserved only in strict code.
var StrictReserved = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

func LookupIdentifier(ident string) TokenType {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return Identifier
}

// IsIdentifierName reports whether tokens of type t can serve as a
// property name after "." or in an object literal.
func (t TokenType) IsIdentifierName() bool {
	return t == Identifier || (t >= Var && t <= Reserved)
}

// IsAssign reports whether t is "=" or a compound assignment operator.
func (t TokenType) IsAssign() bool {
	return t >= Assign && t <= UnsignedRightShiftAssign
}
