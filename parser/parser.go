package parser

import (
	"fmt"
	"strings"

	"github.com/example/es5go/ast"
	"github.com/example/es5go/lexer"
	"github.com/example/es5go/runtime"
	"github.com/example/es5go/token"
)

// Precedence levels for Pratt parsing
const (
	_ int = iota
	precComma
	precAssignment
	precConditional
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precCall
	precMember
)

// maxNesting bounds the depth of the syntax tree: nested statements and
// expressions, and the operands of one operator chain. Deeper sources are
// rejected rather than exhausting the stack of the parser or evaluator.
const maxNesting = 10000

// bailout unwinds a parse that cannot continue.
type bailout struct{}

// Mode controls how a source text is parsed.
type Mode uint

const (
	// StrictMode parses the source as strict code from its first token,
	// as eval code called from strict code is.
	StrictMode Mode = 1 << iota
)

type Parser struct {
	l         *lexer.Lexer
	source    string
	mode      Mode
	curToken  token.Token
	peekToken token.Token
	errors    ErrorList
	noIn      bool // suppress 'in' as binary operator (for-in disambiguation)

	fn            *funcState
	pendingLabels []*labelEntry
	nextID        ast.TargetID
	depth         int
}

func New(source string) *Parser {
	return NewWithMode(source, 0)
}

func NewWithMode(source string, mode Mode) *Parser {
	p := &Parser{
		l:      lexer.New(source),
		source: source,
		mode:   mode,
	}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses the whole source. The returned error is an
// *ErrorList when the source has syntax errors.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program, err = nil, p.errors.err()
		}
	}()
	fs := p.pushFunc(false)
	fs.scope.Strict = p.mode&StrictMode != 0
	program = &ast.Program{Scope: fs.scope, Source: p.source}
	program.Statements = p.parseStatementList(token.EOF, true)
	p.popFunc()
	return program, p.errors.err()
}

// ParseProgram is a shorthand for New(source).ParseProgram().
func ParseProgram(source string) (*ast.Program, error) {
	return New(source).ParseProgram()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t token.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError("expected %s, got %s (%q)", tokenName(t), tokenName(p.curToken.Type), p.curToken.Literal)
	return false
}

func (p *Parser) addError(format string, args ...interface{}) {
	p.errorAt(p.curToken, format, args...)
}

func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) {
	p.errors.add(tok.Line, tok.Column, fmt.Sprintf(format, args...))
}

// descend enters one more level of nesting. Past maxNesting the parse is
// abandoned with an error at the current token. Callers restore depth
// when they return.
func (p *Parser) descend() {
	p.depth++
	if p.depth > maxNesting {
		p.addError("nesting exceeds %d levels", maxNesting)
		panic(bailout{})
	}
}

// allowIn lifts the for-in restriction for a nested expression and
// returns the function that restores it.
func (p *Parser) allowIn() func() {
	saved := p.noIn
	p.noIn = false
	return func() { p.noIn = saved }
}

// parseStatementList parses statements up to end. With prologue set the
// leading string literal statements are read as directives.
func (p *Parser) parseStatementList(end token.TokenType, prologue bool) []ast.Statement {
	var stmts []ast.Statement
	p.fn.inPrologue = prologue
	for !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
		if p.fn.inPrologue && !p.curTokenIs(token.String) {
			p.fn.inPrologue = false
		}
		start := p.curToken
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.fn.inPrologue {
			p.directive(stmt)
		}
		if p.curToken.Offset == start.Offset && !p.curTokenIs(token.EOF) {
			// no progress; skip the offending token
			p.nextToken()
		}
	}
	p.fn.inPrologue = false
	return stmts
}

func (p *Parser) directive(stmt ast.Statement) {
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok || es.Token.Type != token.String {
		p.fn.inPrologue = false
		return
	}
	lit, ok := es.Expression.(*ast.StringLiteral)
	if !ok {
		p.fn.inPrologue = false
		return
	}
	if lit.Token.Raw == `"use strict"` || lit.Token.Raw == `'use strict'` {
		if !p.fn.scope.Strict && p.fn.prologueOctal != nil {
			p.errorAt(*p.fn.prologueOctal, "octal escape sequences are not allowed in strict mode")
		}
		p.fn.scope.Strict = true
	}
}

// parseStatement dispatches to the appropriate statement parser.
func (p *Parser) parseStatement() ast.Statement {
	defer func(depth int) { p.depth = depth }(p.depth)
	p.descend()
	switch p.curToken.Type {
	case token.While, token.Do, token.For, token.Switch:
	case token.Identifier:
		if !p.peekTokenIs(token.Colon) {
			p.pendingLabels = nil
		}
	default:
		p.pendingLabels = nil
	}

	switch p.curToken.Type {
	case token.Var:
		return p.parseVariableStatement()
	case token.LeftBrace:
		return p.parseBlockStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.If:
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.For:
		return p.parseForStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Function:
		return p.parseFunctionDeclaration()
	case token.Debugger:
		return p.parseDebuggerStatement()
	case token.Semicolon:
		return p.parseEmptyStatement()
	case token.With:
		return p.parseWithStatement()
	case token.Identifier:
		if p.peekTokenIs(token.Colon) {
			return p.parseLabeledStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseVariableStatement() *ast.VariableDeclaration {
	decl := p.parseVariableDeclarationList()
	p.consumeSemicolon()
	return decl
}

func (p *Parser) parseVariableDeclarationList() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken}
	p.nextToken() // consume var
	for {
		decl.Declarations = append(decl.Declarations, p.parseVariableDeclarator())
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseVariableDeclarator() *ast.VariableDeclarator {
	d := &ast.VariableDeclarator{Token: p.curToken}
	d.Name = p.parseBindingIdentifier()
	p.checkBinding(d.Name, p.strict())
	p.declareVar(d.Name.Value)
	if p.curTokenIs(token.Assign) {
		p.nextToken()
		d.Value = p.parseAssignmentExpression()
	}
	return d
}

// parseBindingIdentifier reads a declared name. It does not advance past
// a token that is not an identifier.
func (p *Parser) parseBindingIdentifier() *ast.Identifier {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.curTokenIs(token.Identifier) {
		p.addError("expected identifier, got %s (%q)", tokenName(p.curToken.Type), p.curToken.Literal)
		return ident
	}
	p.nextToken()
	return ident
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.expect(token.LeftBrace)
	block.Statements = p.parseStatementList(token.RightBrace, false)
	p.expect(token.RightBrace)
	return block
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if !p.fn.isFunction {
		p.addError("illegal return statement")
	}
	p.nextToken() // consume return
	if !p.atStatementEnd() {
		stmt.Value = p.parseExpression(0)
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken() // consume if
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Consequence = p.parseStatement()
	if p.curTokenIs(token.Else) {
		p.nextToken()
		stmt.Alternative = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	stmt.ID = p.enterBreakable(true)
	defer p.leaveBreakable()
	p.nextToken() // consume while
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	stmt.ID = p.enterBreakable(true)
	defer p.leaveBreakable()
	p.nextToken() // consume do
	stmt.Body = p.parseStatement()
	p.expect(token.While)
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	// The semicolon after do-while is always optional.
	if p.curTokenIs(token.Semicolon) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	id := p.enterBreakable(true)
	defer p.leaveBreakable()
	p.nextToken() // consume for
	p.expect(token.LeftParen)

	var init ast.Node
	switch {
	case p.curTokenIs(token.Var):
		p.noIn = true
		decl := p.parseVariableDeclarationList()
		p.noIn = false
		if p.curTokenIs(token.In) {
			if len(decl.Declarations) != 1 {
				p.addError("invalid left-hand side in for-in")
			}
			return p.parseForIn(tok, id, decl)
		}
		init = decl
	case !p.curTokenIs(token.Semicolon):
		p.noIn = true
		expr := p.parseExpression(0)
		p.noIn = false
		if p.curTokenIs(token.In) {
			if !isLeftHandSide(expr) {
				p.addError("invalid left-hand side in for-in")
			}
			return p.parseForIn(tok, id, expr)
		}
		init = expr
	}
	p.expect(token.Semicolon)
	return p.parseForStandard(tok, id, init)
}

func (p *Parser) parseForIn(tok token.Token, id ast.TargetID, left ast.Node) *ast.ForInStatement {
	p.nextToken() // consume in
	stmt := &ast.ForInStatement{Token: tok, ID: id, Left: left}
	stmt.Right = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseForStandard(tok token.Token, id ast.TargetID, init ast.Node) *ast.ForStatement {
	stmt := &ast.ForStatement{Token: tok, ID: id, Init: init}

	if !p.curTokenIs(token.Semicolon) {
		stmt.Test = p.parseExpression(0)
	}
	p.expect(token.Semicolon)

	if !p.curTokenIs(token.RightParen) {
		stmt.Update = p.parseExpression(0)
	}
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

// parseJumpLabel reads the optional label of break and continue. A line
// break ends the statement before the label.
func (p *Parser) parseJumpLabel() *ast.Identifier {
	if p.curTokenIs(token.Identifier) && !p.curToken.NewlineBefore {
		label := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		return label
	}
	return nil
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	p.nextToken() // consume break
	stmt.Label = p.parseJumpLabel()
	stmt.Target = p.breakTarget(stmt.Label, stmt.Token)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	p.nextToken() // consume continue
	stmt.Label = p.parseJumpLabel()
	stmt.Target = p.continueTarget(stmt.Label, stmt.Token)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	stmt.ID = p.enterBreakable(false)
	defer p.leaveBreakable()
	p.nextToken() // consume switch
	p.expect(token.LeftParen)
	stmt.Discriminant = p.parseExpression(0)
	p.expect(token.RightParen)
	p.expect(token.LeftBrace)

	hasDefault := false
	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		sc := &ast.SwitchCase{Token: p.curToken}
		if p.curTokenIs(token.Case) {
			p.nextToken()
			sc.Test = p.parseExpression(0)
		} else if p.curTokenIs(token.Default) {
			if hasDefault {
				p.addError("more than one default clause in switch statement")
			}
			hasDefault = true
			p.nextToken()
		} else {
			p.addError("expected case or default")
			p.nextToken()
			continue
		}
		p.expect(token.Colon)
		for !p.curTokenIs(token.Case) && !p.curTokenIs(token.Default) && !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
			start := p.curToken.Offset
			s := p.parseStatement()
			if s != nil {
				sc.Consequent = append(sc.Consequent, s)
			}
			if p.curToken.Offset == start {
				p.nextToken()
			}
		}
		stmt.Cases = append(stmt.Cases, sc)
	}
	p.expect(token.RightBrace)
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken() // consume throw
	if p.curToken.NewlineBefore {
		p.addError("illegal newline after throw")
	}
	stmt.Argument = p.parseExpression(0)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.curToken}
	p.nextToken() // consume try
	stmt.Block = p.parseBlockStatement()

	if p.curTokenIs(token.Catch) {
		stmt.Handler = &ast.CatchClause{Token: p.curToken}
		p.nextToken() // consume catch
		p.expect(token.LeftParen)
		stmt.Handler.Param = p.parseBindingIdentifier()
		p.checkBinding(stmt.Handler.Param, p.strict())
		p.expect(token.RightParen)
		stmt.Handler.Body = p.parseBlockStatement()
	}
	if p.curTokenIs(token.Finally) {
		p.nextToken()
		stmt.Finalizer = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.addError("missing catch or finally after try")
	}
	return stmt
}

// parseFunctionDeclaration records the declaration in the enclosing scope
// wherever it appears; declarations nested in blocks are hoisted like
// top-level ones.
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	decl := &ast.FunctionDeclaration{Token: p.curToken}
	decl.Function = p.parseFunctionLiteral(true)
	if decl.Function.Name != nil {
		p.fn.scope.Functions = append(p.fn.scope.Functions, decl)
	}
	return decl
}

func (p *Parser) parseFunctionLiteral(requireName bool) *ast.FunctionLiteral {
	fn := &ast.FunctionLiteral{Token: p.curToken}
	start := p.curToken.Offset
	p.nextToken() // consume function
	if p.curTokenIs(token.Identifier) {
		fn.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
	} else if requireName {
		p.addError("function statement requires a name")
	}
	p.parseFunctionRest(fn, start)
	return fn
}

// parseFunctionRest parses the parameter list and body of fn, whose
// source text begins at byte offset start.
func (p *Parser) parseFunctionRest(fn *ast.FunctionLiteral, start int) {
	p.expect(token.LeftParen)
	for !p.curTokenIs(token.RightParen) && !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.Identifier) {
			p.addError("expected parameter name, got %s (%q)", tokenName(p.curToken.Type), p.curToken.Literal)
			break
		}
		fn.Params = append(fn.Params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		p.nextToken()
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightParen)

	restoreIn := p.allowIn()
	fs := p.pushFunc(true)
	for _, param := range fn.Params {
		fs.scope.Params = append(fs.scope.Params, param.Value)
	}
	p.expect(token.LeftBrace)
	fn.Body = p.parseStatementList(token.RightBrace, true)
	fn.Scope = fs.scope
	end := p.curToken.End
	p.expect(token.RightBrace)
	p.popFunc()
	restoreIn()

	fn.Source = p.l.Source(start, end)
	p.checkFunction(fn)
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	stmt := &ast.LabeledStatement{Token: p.curToken}
	stmt.Label = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.findLabel(stmt.Label.Value) != nil {
		p.addError("label %q has already been declared", stmt.Label.Value)
	}
	p.nextToken() // consume identifier
	p.nextToken() // consume colon

	if len(p.pendingLabels) > 0 {
		stmt.ID = p.pendingLabels[0].id
	} else {
		stmt.ID = p.newTargetID()
	}
	entry := &labelEntry{name: stmt.Label.Value, id: stmt.ID}
	p.fn.labels = append(p.fn.labels, entry)
	p.pendingLabels = append(p.pendingLabels, entry)
	stmt.Body = p.parseStatement()
	p.fn.labels = p.fn.labels[:len(p.fn.labels)-1]
	return stmt
}

func (p *Parser) parseDebuggerStatement() *ast.DebuggerStatement {
	stmt := &ast.DebuggerStatement{Token: p.curToken}
	p.nextToken()
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseEmptyStatement() *ast.EmptyStatement {
	stmt := &ast.EmptyStatement{Token: p.curToken}
	p.nextToken()
	return stmt
}

func (p *Parser) parseWithStatement() *ast.WithStatement {
	stmt := &ast.WithStatement{Token: p.curToken}
	if p.strict() {
		p.addError("strict mode code may not include a with statement")
	}
	p.fn.scope.HasWith = true
	p.nextToken() // consume with
	p.expect(token.LeftParen)
	stmt.Object = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(0)
	p.consumeSemicolon()
	return stmt
}

// ---------- Expression Parsing (Pratt) ----------

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	defer func(depth int) { p.depth = depth }(p.depth)
	p.descend()
	left := p.parsePrefixExpression()
	for {
		prec := p.infixPrecedence()
		if prec <= minPrec {
			break
		}
		p.descend()
		left = p.parseInfixExpression(left, prec)
	}
	return left
}

func (p *Parser) parseAssignmentExpression() ast.Expression {
	return p.parseExpression(precComma)
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	switch p.curToken.Type {
	case token.Not, token.BitwiseNot, token.Typeof, token.Void, token.Delete, token.Plus, token.Minus:
		return p.parseUnaryExpression()
	case token.Increment, token.Decrement:
		return p.parsePrefixUpdateExpression()
	case token.New:
		return p.parseNewExpression()
	default:
		return p.parsePrimaryExpression()
	}
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	if p.curTokenIs(token.Slash) || p.curTokenIs(token.SlashAssign) {
		// A slash where an operand is expected starts a regular expression.
		p.curToken = p.l.RescanRegExp(p.curToken)
		p.peekToken = p.l.NextToken()
	}

	switch p.curToken.Type {
	case token.Identifier:
		return p.parseIdentifier()
	case token.Number:
		return p.parseNumberLiteral()
	case token.String:
		return p.parseStringLiteral()
	case token.True, token.False:
		return p.parseBooleanLiteral()
	case token.Null:
		return p.parseNullLiteral()
	case token.This:
		return p.parseThisExpression()
	case token.LeftParen:
		return p.parseGroupExpression()
	case token.LeftBracket:
		return p.parseArrayLiteral()
	case token.LeftBrace:
		return p.parseObjectLiteral()
	case token.Function:
		return p.parseFunctionExpression()
	case token.RegExp:
		return p.parseRegExpLiteral()
	case token.Illegal:
		p.addError("%s", p.curToken.Literal)
	default:
		p.addError("unexpected token %s (%q)", tokenName(p.curToken.Type), p.curToken.Literal)
	}
	tok := p.curToken
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if ident.Value == "arguments" {
		p.fn.scope.UsesArguments = true
	}
	if p.strict() && token.StrictReserved[ident.Value] {
		p.addError("unexpected strict mode reserved word %q", ident.Value)
	}
	p.nextToken()
	return ident
}

func (p *Parser) parseNumberLiteral() *ast.NumberLiteral {
	lit := &ast.NumberLiteral{Token: p.curToken, Value: numericValue(p.curToken)}
	if p.curToken.Octal && p.strict() {
		p.addError("octal literals are not allowed in strict mode")
	}
	p.nextToken()
	return lit
}

func numericValue(tok token.Token) float64 {
	if tok.Octal {
		var v float64
		for _, c := range tok.Literal[1:] {
			v = v*8 + float64(c-'0')
		}
		return v
	}
	return runtime.StringToNumber(tok.Literal)
}

func (p *Parser) parseStringLiteral() *ast.StringLiteral {
	lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	p.checkOctalString(p.curToken)
	p.nextToken()
	return lit
}

func (p *Parser) checkOctalString(tok token.Token) {
	if !tok.Octal {
		return
	}
	if p.strict() {
		p.errorAt(tok, "octal escape sequences are not allowed in strict mode")
	} else if p.fn.inPrologue && p.fn.prologueOctal == nil {
		p.fn.prologueOctal = &tok
	}
}

func (p *Parser) parseBooleanLiteral() *ast.BooleanLiteral {
	lit := &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.True)}
	p.nextToken()
	return lit
}

func (p *Parser) parseNullLiteral() *ast.NullLiteral {
	lit := &ast.NullLiteral{Token: p.curToken}
	p.nextToken()
	return lit
}

func (p *Parser) parseThisExpression() *ast.ThisExpression {
	expr := &ast.ThisExpression{Token: p.curToken}
	p.nextToken()
	return expr
}

func (p *Parser) parseGroupExpression() ast.Expression {
	defer p.allowIn()()
	p.nextToken() // consume (
	expr := p.parseExpression(0)
	p.expect(token.RightParen)
	return expr
}

func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	defer p.allowIn()()
	arr := &ast.ArrayLiteral{Token: p.curToken}
	p.nextToken() // consume [
	for !p.curTokenIs(token.RightBracket) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.Comma) {
			arr.Elements = append(arr.Elements, nil)
			p.nextToken()
			continue
		}
		arr.Elements = append(arr.Elements, p.parseAssignmentExpression())
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightBracket)
	return arr
}

func (p *Parser) parseObjectLiteral() *ast.ObjectLiteral {
	defer p.allowIn()()
	obj := &ast.ObjectLiteral{Token: p.curToken}
	p.nextToken() // consume {
	seen := map[string]*propertyKinds{}
	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		prop := p.parseObjectProperty()
		if prop == nil {
			break
		}
		obj.Properties = append(obj.Properties, prop)
		p.checkDuplicateProperty(seen, prop)
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightBrace)
	return obj
}

func isPropertyKeyToken(t token.TokenType) bool {
	return t.IsIdentifierName() || t == token.String || t == token.Number
}

func (p *Parser) parseObjectProperty() *ast.Property {
	tok := p.curToken
	if tok.Type == token.Identifier && (tok.Literal == "get" || tok.Literal == "set") && isPropertyKeyToken(p.peekToken.Type) {
		p.nextToken() // consume get/set
		key, ok := p.parsePropertyKey()
		if !ok {
			return nil
		}
		prop := &ast.Property{Token: tok, Key: key, Kind: ast.PropertyGet}
		fn := &ast.FunctionLiteral{Token: tok}
		p.parseFunctionRest(fn, tok.Offset)
		if tok.Literal == "get" && len(fn.Params) != 0 {
			p.errorAt(tok, "getter must not have any formal parameters")
		}
		if tok.Literal == "set" {
			prop.Kind = ast.PropertySet
			if len(fn.Params) != 1 {
				p.errorAt(tok, "setter must have exactly one formal parameter")
			}
		}
		prop.Value = &ast.FunctionExpression{Token: tok, Function: fn}
		return prop
	}

	key, ok := p.parsePropertyKey()
	if !ok {
		return nil
	}
	prop := &ast.Property{Token: tok, Key: key, Kind: ast.PropertyInit}
	p.expect(token.Colon)
	prop.Value = p.parseAssignmentExpression()
	return prop
}

// parsePropertyKey reads an object literal key and returns it as the
// property name string.
func (p *Parser) parsePropertyKey() (string, bool) {
	tok := p.curToken
	var key string
	switch {
	case tok.Type == token.String:
		p.checkOctalString(tok)
		key = tok.Literal
	case tok.Type == token.Number:
		if tok.Octal && p.strict() {
			p.addError("octal literals are not allowed in strict mode")
		}
		key = runtime.NumberToString(numericValue(tok))
	case tok.Type.IsIdentifierName():
		key = tok.Literal
	default:
		p.addError("unexpected token in property name: %s", tokenName(tok.Type))
		return "", false
	}
	p.nextToken()
	return key, true
}

func (p *Parser) parseFunctionExpression() *ast.FunctionExpression {
	fe := &ast.FunctionExpression{Token: p.curToken}
	fe.Function = p.parseFunctionLiteral(false)
	return fe
}

func (p *Parser) parseNewExpression() ast.Expression {
	defer func(depth int) { p.depth = depth }(p.depth)
	p.descend()
	expr := &ast.NewExpression{Token: p.curToken}
	p.nextToken() // consume new
	if p.curTokenIs(token.New) {
		expr.Callee = p.parseNewExpression()
	} else {
		expr.Callee = p.parsePrimaryExpression()
	}
	expr.Callee = p.parseMemberSuffixes(expr.Callee)
	if p.curTokenIs(token.LeftParen) {
		expr.Arguments = p.parseArguments()
	}
	return expr
}

// parseMemberSuffixes applies property accesses, but not calls, to expr.
func (p *Parser) parseMemberSuffixes(expr ast.Expression) ast.Expression {
	for {
		switch p.curToken.Type {
		case token.Dot:
			p.descend()
			expr = p.parseDotMember(expr)
		case token.LeftBracket:
			p.descend()
			expr = p.parseBracketMember(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(precUnary)
	if tok.Type == token.Delete && p.strict() {
		if _, ok := operand.(*ast.Identifier); ok {
			p.errorAt(tok, "delete of an unqualified identifier in strict mode")
		}
	}
	return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parsePrefixUpdateExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(precUnary)
	p.checkAssignTarget(operand)
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: operand, Prefix: true}
}

func (p *Parser) parseRegExpLiteral() ast.Expression {
	raw := p.curToken.Literal // e.g. "/pattern/flags"
	lastSlash := strings.LastIndex(raw, "/")
	lit := &ast.RegExpLiteral{Token: p.curToken, Pattern: raw[1:lastSlash], Flags: raw[lastSlash+1:]}
	if !validRegExpFlags(lit.Flags) {
		p.addError("invalid regular expression flags %q", lit.Flags)
	}
	p.nextToken()
	return lit
}

func validRegExpFlags(flags string) bool {
	var seen [3]bool
	for _, c := range flags {
		i := strings.IndexRune("gim", c)
		if i < 0 || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// ---------- Infix Parsing ----------

func (p *Parser) infixPrecedence() int {
	switch p.curToken.Type {
	case token.Comma:
		return precComma
	case token.QuestionMark:
		return precConditional
	case token.Or:
		return precLogicalOr
	case token.And:
		return precLogicalAnd
	case token.BitwiseOr:
		return precBitwiseOr
	case token.BitwiseXor:
		return precBitwiseXor
	case token.BitwiseAnd:
		return precBitwiseAnd
	case token.Equal, token.NotEqual, token.StrictEqual, token.StrictNotEqual:
		return precEquality
	case token.LessThan, token.GreaterThan, token.LessThanOrEqual, token.GreaterThanOrEqual,
		token.Instanceof:
		return precRelational
	case token.In:
		if p.noIn {
			return 0
		}
		return precRelational
	case token.LeftShift, token.RightShift, token.UnsignedRightShift:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Asterisk, token.Slash, token.Percent:
		return precMultiplicative
	case token.Increment, token.Decrement:
		// No line terminator is allowed before a postfix operator.
		if p.curToken.NewlineBefore {
			return 0
		}
		return precPostfix
	case token.LeftParen:
		return precCall
	case token.Dot, token.LeftBracket:
		return precMember
	}
	if p.curToken.Type.IsAssign() {
		return precAssignment
	}
	return 0
}

func (p *Parser) parseInfixExpression(left ast.Expression, prec int) ast.Expression {
	switch p.curToken.Type {
	case token.Comma:
		return p.parseSequenceExpression(left)
	case token.QuestionMark:
		return p.parseConditionalExpression(left)
	case token.Or, token.And:
		return p.parseLogicalInfix(left, prec)
	case token.LeftParen:
		return p.parseCallExpression(left)
	case token.Dot:
		return p.parseDotMember(left)
	case token.LeftBracket:
		return p.parseBracketMember(left)
	case token.Increment, token.Decrement:
		return p.parsePostfixUpdate(left)
	}
	if p.curToken.Type.IsAssign() {
		return p.parseAssignmentInfix(left)
	}
	return p.parseBinaryInfix(left, prec)
}

func (p *Parser) parseSequenceExpression(left ast.Expression) ast.Expression {
	seq := &ast.SequenceExpression{Token: p.curToken, Expressions: []ast.Expression{left}}
	for p.curTokenIs(token.Comma) {
		p.nextToken()
		seq.Expressions = append(seq.Expressions, p.parseAssignmentExpression())
	}
	return seq
}

func (p *Parser) parseAssignmentInfix(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.checkAssignTarget(left)
	p.nextToken()
	right := p.parseAssignmentExpression()
	return &ast.AssignmentExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseConditionalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken() // consume ?
	restoreIn := p.allowIn()
	consequent := p.parseAssignmentExpression()
	restoreIn()
	p.expect(token.Colon)
	alternate := p.parseAssignmentExpression()
	return &ast.ConditionalExpression{Token: tok, Test: left, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseLogicalInfix(left ast.Expression, prec int) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseBinaryInfix(left ast.Expression, prec int) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if id, ok := left.(*ast.Identifier); ok && id.Value == "eval" {
		p.fn.scope.UsesEval = true
	}
	args := p.parseArguments()
	return &ast.CallExpression{Token: tok, Callee: left, Arguments: args}
}

func (p *Parser) parseArguments() []ast.Expression {
	defer p.allowIn()()
	p.nextToken() // consume (
	var args []ast.Expression
	for !p.curTokenIs(token.RightParen) && !p.curTokenIs(token.EOF) {
		args = append(args, p.parseAssignmentExpression())
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parseDotMember(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken() // consume .
	if !p.curToken.Type.IsIdentifierName() {
		p.addError("unexpected token %s after \".\"", tokenName(p.curToken.Type))
		return left
	}
	prop := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop}
}

func (p *Parser) parseBracketMember(left ast.Expression) ast.Expression {
	restoreIn := p.allowIn()
	tok := p.curToken
	p.nextToken() // consume [
	prop := p.parseExpression(0)
	p.expect(token.RightBracket)
	restoreIn()
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop, Computed: true}
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.checkAssignTarget(left)
	p.nextToken()
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: left, Prefix: false}
}

// ---------- Helpers ----------

// atStatementEnd reports whether the current token ends a statement by an
// actual or automatically inserted semicolon.
func (p *Parser) atStatementEnd() bool {
	return p.curTokenIs(token.Semicolon) || p.curTokenIs(token.RightBrace) ||
		p.curTokenIs(token.EOF) || p.curToken.NewlineBefore
}

func (p *Parser) consumeSemicolon() {
	if p.curTokenIs(token.Semicolon) {
		p.nextToken()
		return
	}
	if !p.atStatementEnd() {
		p.addError("unexpected token %s (%q)", tokenName(p.curToken.Type), p.curToken.Literal)
	}
}

func isLeftHandSide(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.CallExpression:
		return true
	}
	return false
}

func tokenName(t token.TokenType) string {
	names := map[token.TokenType]string{
		token.EOF:                      "EOF",
		token.Illegal:                  "ILLEGAL",
		token.Identifier:               "IDENTIFIER",
		token.Number:                   "NUMBER",
		token.String:                   "STRING",
		token.RegExp:                   "REGEXP",
		token.Plus:                     "+",
		token.Minus:                    "-",
		token.Asterisk:                 "*",
		token.Slash:                    "/",
		token.Percent:                  "%",
		token.Assign:                   "=",
		token.PlusAssign:               "+=",
		token.MinusAssign:              "-=",
		token.AsteriskAssign:           "*=",
		token.SlashAssign:              "/=",
		token.PercentAssign:            "%=",
		token.AmpersandAssign:          "&=",
		token.PipeAssign:               "|=",
		token.CaretAssign:              "^=",
		token.LeftShiftAssign:          "<<=",
		token.RightShiftAssign:         ">>=",
		token.UnsignedRightShiftAssign: ">>>=",
		token.Equal:                    "==",
		token.NotEqual:                 "!=",
		token.StrictEqual:              "===",
		token.StrictNotEqual:           "!==",
		token.LessThan:                 "<",
		token.GreaterThan:              ">",
		token.LessThanOrEqual:          "<=",
		token.GreaterThanOrEqual:       ">=",
		token.And:                      "&&",
		token.Or:                       "||",
		token.Not:                      "!",
		token.BitwiseAnd:               "&",
		token.BitwiseOr:                "|",
		token.BitwiseXor:               "^",
		token.BitwiseNot:               "~",
		token.LeftShift:                "<<",
		token.RightShift:               ">>",
		token.UnsignedRightShift:       ">>>",
		token.Increment:                "++",
		token.Decrement:                "--",
		token.LeftParen:                "(",
		token.RightParen:               ")",
		token.LeftBrace:                "{",
		token.RightBrace:               "}",
		token.LeftBracket:              "[",
		token.RightBracket:             "]",
		token.Semicolon:                ";",
		token.Colon:                    ":",
		token.Comma:                    ",",
		token.Dot:                      ".",
		token.QuestionMark:             "?",
		token.Var:                      "var",
		token.Function:                 "function",
		token.Return:                   "return",
		token.If:                       "if",
		token.Else:                     "else",
		token.While:                    "while",
		token.For:                      "for",
		token.Do:                       "do",
		token.Break:                    "break",
		token.Continue:                 "continue",
		token.Switch:                   "switch",
		token.Case:                     "case",
		token.Default:                  "default",
		token.Throw:                    "throw",
		token.Try:                      "try",
		token.Catch:                    "catch",
		token.Finally:                  "finally",
		token.New:                      "new",
		token.Delete:                   "delete",
		token.Typeof:                   "typeof",
		token.Void:                     "void",
		token.In:                       "in",
		token.Instanceof:               "instanceof",
		token.This:                     "this",
		token.True:                     "true",
		token.False:                    "false",
		token.Null:                     "null",
		token.Debugger:                 "debugger",
		token.With:                     "with",
		token.Reserved:                 "reserved word",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}
