package ast

import "github.com/example/es5go/token"

// Node is the interface all AST nodes implement.
type Node interface {
	TokenLiteral() string
	nodeType() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// NodeType returns the node's type name, as shown in AST dumps.
func NodeType(n Node) string { return n.nodeType() }

// TargetID identifies a breakable statement. Break and continue statements
// carry the ID of the statement they leave; zero means none.
type TargetID int

// Program is the root node of every AST.
type Program struct {
	Statements []Statement
	Scope      *Scope
	// Source is the text the program was parsed from.
	Source string `json:"-"`
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) nodeType() string { return "Program" }

// ---------- Statements ----------

type VariableDeclaration struct {
	Token        token.Token // var
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	Token token.Token
	Name  *Identifier
	Value Expression // may be nil
}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // may be nil
}

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement // may be nil
}

type WhileStatement struct {
	Token     token.Token
	ID        TargetID
	Condition Expression
	Body      Statement
}

type DoWhileStatement struct {
	Token     token.Token
	ID        TargetID
	Body      Statement
	Condition Expression
}

type ForStatement struct {
	Token  token.Token
	ID     TargetID
	Init   Node       // *VariableDeclaration or Expression, may be nil
	Test   Expression // may be nil
	Update Expression // may be nil
	Body   Statement
}

type ForInStatement struct {
	Token token.Token
	ID    TargetID
	Left  Node // *VariableDeclaration with one declarator, or Expression
	Right Expression
	Body  Statement
}

type BreakStatement struct {
	Token  token.Token
	Label  *Identifier // may be nil
	Target TargetID
}

type ContinueStatement struct {
	Token  token.Token
	Label  *Identifier // may be nil
	Target TargetID
}

type SwitchStatement struct {
	Token        token.Token
	ID           TargetID
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchCase struct {
	Token      token.Token
	Test       Expression // nil for default
	Consequent []Statement
}

type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

type TryStatement struct {
	Token     token.Token
	Block     *BlockStatement
	Handler   *CatchClause    // may be nil
	Finalizer *BlockStatement // may be nil
}

type CatchClause struct {
	Token token.Token
	Param *Identifier
	Body  *BlockStatement
}

type FunctionDeclaration struct {
	Token    token.Token
	Function *FunctionLiteral
}

// LabeledStatement shares its ID with an iteration or switch body; any
// other body gets a fresh ID so "break label" can leave it.
type LabeledStatement struct {
	Token token.Token
	ID    TargetID
	Label *Identifier
	Body  Statement
}

type DebuggerStatement struct {
	Token token.Token
}

type EmptyStatement struct {
	Token token.Token
}

type WithStatement struct {
	Token  token.Token
	Object Expression
	Body   Statement
}

// ---------- Expressions ----------

type Identifier struct {
	Token token.Token
	Value string
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

type StringLiteral struct {
	Token token.Token
	Value string
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

type NullLiteral struct {
	Token token.Token
}

type RegExpLiteral struct {
	Token   token.Token
	Pattern string
	Flags   string
}

type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression // may contain nils for elisions [1,,3]
}

type ObjectLiteral struct {
	Token      token.Token
	Properties []*Property
}

// PropertyKind distinguishes data entries from accessors in object literals.
type PropertyKind int

const (
	PropertyInit PropertyKind = iota
	PropertyGet
	PropertySet
)

type Property struct {
	Token token.Token
	// Key is the property name after ToString of numeric keys.
	Key   string
	Value Expression // *FunctionExpression for accessors
	Kind  PropertyKind
}

// FunctionLiteral is the code shared by function declarations and
// expressions.
type FunctionLiteral struct {
	Token  token.Token
	Name   *Identifier // nil for anonymous expressions
	Params []*Identifier
	Body   []Statement
	Scope  *Scope
	// Source is the text from "function" through the closing brace.
	Source string `json:"-"`
}

type FunctionExpression struct {
	Token    token.Token
	Function *FunctionLiteral
}

type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

type UpdateExpression struct {
	Token    token.Token
	Operator string // ++ or --
	Operand  Expression
	Prefix   bool
}

type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

type LogicalExpression struct {
	Token    token.Token
	Operator string // && or ||
	Left     Expression
	Right    Expression
}

type AssignmentExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

type ConditionalExpression struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression // *Identifier when not computed
	Computed bool
}

type NewExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

type ThisExpression struct {
	Token token.Token
}

// --- Node interface implementations ---
// Statement markers
func (s *VariableDeclaration) statementNode() {}
func (s *ExpressionStatement) statementNode() {}
func (s *BlockStatement) statementNode()      {}
func (s *ReturnStatement) statementNode()     {}
func (s *IfStatement) statementNode()         {}
func (s *WhileStatement) statementNode()      {}
func (s *DoWhileStatement) statementNode()    {}
func (s *ForStatement) statementNode()        {}
func (s *ForInStatement) statementNode()      {}
func (s *BreakStatement) statementNode()      {}
func (s *ContinueStatement) statementNode()   {}
func (s *SwitchStatement) statementNode()     {}
func (s *ThrowStatement) statementNode()      {}
func (s *TryStatement) statementNode()        {}
func (s *FunctionDeclaration) statementNode() {}
func (s *LabeledStatement) statementNode()    {}
func (s *DebuggerStatement) statementNode()   {}
func (s *EmptyStatement) statementNode()      {}
func (s *WithStatement) statementNode()       {}

// Expression markers
func (e *Identifier) expressionNode()            {}
func (e *NumberLiteral) expressionNode()         {}
func (e *StringLiteral) expressionNode()         {}
func (e *BooleanLiteral) expressionNode()        {}
func (e *NullLiteral) expressionNode()           {}
func (e *RegExpLiteral) expressionNode()         {}
func (e *ArrayLiteral) expressionNode()          {}
func (e *ObjectLiteral) expressionNode()         {}
func (e *FunctionExpression) expressionNode()    {}
func (e *UnaryExpression) expressionNode()       {}
func (e *UpdateExpression) expressionNode()      {}
func (e *BinaryExpression) expressionNode()      {}
func (e *LogicalExpression) expressionNode()     {}
func (e *AssignmentExpression) expressionNode()  {}
func (e *ConditionalExpression) expressionNode() {}
func (e *CallExpression) expressionNode()        {}
func (e *MemberExpression) expressionNode()      {}
func (e *NewExpression) expressionNode()         {}
func (e *SequenceExpression) expressionNode()    {}
func (e *ThisExpression) expressionNode()        {}

// TokenLiteral implementations
func (s *VariableDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *VariableDeclarator) TokenLiteral() string  { return s.Token.Literal }
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ReturnStatement) TokenLiteral() string     { return s.Token.Literal }
func (s *IfStatement) TokenLiteral() string         { return s.Token.Literal }
func (s *WhileStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *DoWhileStatement) TokenLiteral() string    { return s.Token.Literal }
func (s *ForStatement) TokenLiteral() string        { return s.Token.Literal }
func (s *ForInStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *BreakStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ContinueStatement) TokenLiteral() string   { return s.Token.Literal }
func (s *SwitchStatement) TokenLiteral() string     { return s.Token.Literal }
func (s *SwitchCase) TokenLiteral() string          { return s.Token.Literal }
func (s *ThrowStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *TryStatement) TokenLiteral() string        { return s.Token.Literal }
func (s *CatchClause) TokenLiteral() string         { return s.Token.Literal }
func (s *FunctionDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *LabeledStatement) TokenLiteral() string    { return s.Token.Literal }
func (s *DebuggerStatement) TokenLiteral() string   { return s.Token.Literal }
func (s *EmptyStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *WithStatement) TokenLiteral() string       { return s.Token.Literal }

func (e *Identifier) TokenLiteral() string            { return e.Token.Literal }
func (e *NumberLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *StringLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *BooleanLiteral) TokenLiteral() string        { return e.Token.Literal }
func (e *NullLiteral) TokenLiteral() string           { return e.Token.Literal }
func (e *RegExpLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *ArrayLiteral) TokenLiteral() string          { return e.Token.Literal }
func (e *ObjectLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *Property) TokenLiteral() string              { return e.Token.Literal }
func (e *FunctionLiteral) TokenLiteral() string       { return e.Token.Literal }
func (e *FunctionExpression) TokenLiteral() string    { return e.Token.Literal }
func (e *UnaryExpression) TokenLiteral() string       { return e.Token.Literal }
func (e *UpdateExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *BinaryExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *LogicalExpression) TokenLiteral() string     { return e.Token.Literal }
func (e *AssignmentExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *ConditionalExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) TokenLiteral() string        { return e.Token.Literal }
func (e *MemberExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *NewExpression) TokenLiteral() string         { return e.Token.Literal }
func (e *SequenceExpression) TokenLiteral() string    { return e.Token.Literal }
func (e *ThisExpression) TokenLiteral() string        { return e.Token.Literal }

// nodeType implementations
func (s *VariableDeclaration) nodeType() string { return "VariableDeclaration" }
func (s *VariableDeclarator) nodeType() string  { return "VariableDeclarator" }
func (s *ExpressionStatement) nodeType() string { return "ExpressionStatement" }
func (s *BlockStatement) nodeType() string      { return "BlockStatement" }
func (s *ReturnStatement) nodeType() string     { return "ReturnStatement" }
func (s *IfStatement) nodeType() string         { return "IfStatement" }
func (s *WhileStatement) nodeType() string      { return "WhileStatement" }
func (s *DoWhileStatement) nodeType() string    { return "DoWhileStatement" }
func (s *ForStatement) nodeType() string        { return "ForStatement" }
func (s *ForInStatement) nodeType() string      { return "ForInStatement" }
func (s *BreakStatement) nodeType() string      { return "BreakStatement" }
func (s *ContinueStatement) nodeType() string   { return "ContinueStatement" }
func (s *SwitchStatement) nodeType() string     { return "SwitchStatement" }
func (s *SwitchCase) nodeType() string          { return "SwitchCase" }
func (s *ThrowStatement) nodeType() string      { return "ThrowStatement" }
func (s *TryStatement) nodeType() string        { return "TryStatement" }
func (s *CatchClause) nodeType() string         { return "CatchClause" }
func (s *FunctionDeclaration) nodeType() string { return "FunctionDeclaration" }
func (s *LabeledStatement) nodeType() string    { return "LabeledStatement" }
func (s *DebuggerStatement) nodeType() string   { return "DebuggerStatement" }
func (s *EmptyStatement) nodeType() string      { return "EmptyStatement" }
func (s *WithStatement) nodeType() string       { return "WithStatement" }

func (e *Identifier) nodeType() string            { return "Identifier" }
func (e *NumberLiteral) nodeType() string         { return "NumberLiteral" }
func (e *StringLiteral) nodeType() string         { return "StringLiteral" }
func (e *BooleanLiteral) nodeType() string        { return "BooleanLiteral" }
func (e *NullLiteral) nodeType() string           { return "NullLiteral" }
func (e *RegExpLiteral) nodeType() string         { return "RegExpLiteral" }
func (e *ArrayLiteral) nodeType() string          { return "ArrayLiteral" }
func (e *ObjectLiteral) nodeType() string         { return "ObjectLiteral" }
func (e *Property) nodeType() string              { return "Property" }
func (e *FunctionLiteral) nodeType() string       { return "FunctionLiteral" }
func (e *FunctionExpression) nodeType() string    { return "FunctionExpression" }
func (e *UnaryExpression) nodeType() string       { return "UnaryExpression" }
func (e *UpdateExpression) nodeType() string      { return "UpdateExpression" }
func (e *BinaryExpression) nodeType() string      { return "BinaryExpression" }
func (e *LogicalExpression) nodeType() string     { return "LogicalExpression" }
func (e *AssignmentExpression) nodeType() string  { return "AssignmentExpression" }
func (e *ConditionalExpression) nodeType() string { return "ConditionalExpression" }
func (e *CallExpression) nodeType() string        { return "CallExpression" }
func (e *MemberExpression) nodeType() string      { return "MemberExpression" }
func (e *NewExpression) nodeType() string         { return "NewExpression" }
func (e *SequenceExpression) nodeType() string    { return "SequenceExpression" }
func (e *ThisExpression) nodeType() string        { return "ThisExpression" }
