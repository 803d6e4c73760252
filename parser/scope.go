package parser

import (
	"github.com/example/es5go/ast"
	"github.com/example/es5go/token"
)

// funcState tracks the program or function body being parsed: its
// ast.Scope and the labels and breakable statements that are visible to
// break and continue.
type funcState struct {
	scope      *ast.Scope
	outer      *funcState
	isFunction bool
	vars       map[string]bool

	labels     []*labelEntry
	breakables []breakable

	// inPrologue is set while the directive prologue is being read;
	// prologueOctal remembers an octal escape seen there before
	// "use strict".
	inPrologue    bool
	prologueOctal *token.Token
}

type labelEntry struct {
	name string
	id   ast.TargetID
	// iteration is set when the label is attached to a loop, which makes
	// it a valid continue target.
	iteration bool
}

type breakable struct {
	id   ast.TargetID
	loop bool
}

func (p *Parser) pushFunc(isFunction bool) *funcState {
	strict := false
	if p.fn != nil {
		strict = p.fn.scope.Strict
	}
	fs := &funcState{
		scope:      &ast.Scope{Strict: strict},
		outer:      p.fn,
		isFunction: isFunction,
		vars:       map[string]bool{},
	}
	p.fn = fs
	return fs
}

func (p *Parser) popFunc() {
	p.fn = p.fn.outer
	p.pendingLabels = nil
}

func (p *Parser) strict() bool {
	return p.fn.scope.Strict
}

func (p *Parser) declareVar(name string) {
	if p.fn.vars[name] {
		return
	}
	p.fn.vars[name] = true
	p.fn.scope.VarNames = append(p.fn.scope.VarNames, name)
}

func (p *Parser) newTargetID() ast.TargetID {
	p.nextID++
	return p.nextID
}

// enterBreakable allocates the ID of a loop or switch statement. Labels
// written directly in front of it share the ID.
func (p *Parser) enterBreakable(loop bool) ast.TargetID {
	var id ast.TargetID
	if len(p.pendingLabels) > 0 {
		id = p.pendingLabels[0].id
		for _, l := range p.pendingLabels {
			l.iteration = loop
		}
	} else {
		id = p.newTargetID()
	}
	p.pendingLabels = nil
	p.fn.breakables = append(p.fn.breakables, breakable{id: id, loop: loop})
	return id
}

func (p *Parser) leaveBreakable() {
	p.fn.breakables = p.fn.breakables[:len(p.fn.breakables)-1]
}

func (p *Parser) findLabel(name string) *labelEntry {
	for i := len(p.fn.labels) - 1; i >= 0; i-- {
		if p.fn.labels[i].name == name {
			return p.fn.labels[i]
		}
	}
	return nil
}

// breakTarget resolves the statement left by a break, reporting an error
// when there is none.
func (p *Parser) breakTarget(label *ast.Identifier, tok token.Token) ast.TargetID {
	if label != nil {
		l := p.findLabel(label.Value)
		if l == nil {
			p.errorAt(label.Token, "undefined label %q", label.Value)
			return 0
		}
		return l.id
	}
	if len(p.fn.breakables) == 0 {
		p.errorAt(tok, "illegal break statement")
		return 0
	}
	return p.fn.breakables[len(p.fn.breakables)-1].id
}

func (p *Parser) continueTarget(label *ast.Identifier, tok token.Token) ast.TargetID {
	if label != nil {
		l := p.findLabel(label.Value)
		switch {
		case l == nil:
			p.errorAt(label.Token, "undefined label %q", label.Value)
			return 0
		case !l.iteration:
			p.errorAt(tok, "illegal continue statement: %q does not denote an iteration statement", label.Value)
			return 0
		}
		return l.id
	}
	for i := len(p.fn.breakables) - 1; i >= 0; i-- {
		if p.fn.breakables[i].loop {
			return p.fn.breakables[i].id
		}
	}
	p.errorAt(tok, "illegal continue statement")
	return 0
}

func isRestrictedName(name string) bool {
	return name == "eval" || name == "arguments"
}

// checkBinding reports names that strict code may not bind.
func (p *Parser) checkBinding(id *ast.Identifier, strict bool) {
	if !strict || id == nil {
		return
	}
	if isRestrictedName(id.Value) {
		p.errorAt(id.Token, "unexpected eval or arguments in strict mode")
	} else if token.StrictReserved[id.Value] {
		p.errorAt(id.Token, "unexpected strict mode reserved word %q", id.Value)
	}
}

// checkAssignTarget reports assignments to eval or arguments in strict
// code.
func (p *Parser) checkAssignTarget(target ast.Expression) {
	if id, ok := target.(*ast.Identifier); ok && p.strict() && isRestrictedName(id.Value) {
		p.errorAt(id.Token, "unexpected eval or arguments in strict mode")
	}
}

// checkFunction validates the name and parameters of a function once the
// strictness of its body is known.
func (p *Parser) checkFunction(fn *ast.FunctionLiteral) {
	strict := fn.Scope.Strict
	p.checkBinding(fn.Name, strict)
	seen := map[string]bool{}
	for _, param := range fn.Params {
		p.checkBinding(param, strict)
		if strict && seen[param.Value] {
			p.errorAt(param.Token, "duplicate parameter name %q not allowed in strict mode", param.Value)
		}
		seen[param.Value] = true
	}
}

// propertyKinds records which kinds of entries an object literal already
// has for a key.
type propertyKinds struct {
	data, get, set bool
}

func (p *Parser) checkDuplicateProperty(seen map[string]*propertyKinds, prop *ast.Property) {
	prev, ok := seen[prop.Key]
	if !ok {
		prev = &propertyKinds{}
		seen[prop.Key] = prev
	}
	dup := false
	switch prop.Kind {
	case ast.PropertyInit:
		dup = (prev.data && p.strict()) || prev.get || prev.set
		prev.data = true
	case ast.PropertyGet:
		dup = prev.data || prev.get
		prev.get = true
	case ast.PropertySet:
		dup = prev.data || prev.set
		prev.set = true
	}
	if dup {
		p.errorAt(prop.Token, "duplicate property %q in object literal", prop.Key)
	}
}
