package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/es5go/token"
)

type Lexer struct {
	input   string
	pos     int // current position in input (points to current char)
	readPos int // current reading position (after current char)
	ch      rune
	line    int
	col     int
}

func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Source returns the text between two byte offsets of the input.
func (l *Lexer) Source(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(l.input) {
		end = len(l.input)
	}
	if start >= end {
		return ""
	}
	return l.input[start:end]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) atEOF() bool { return l.pos >= len(l.input) }

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	pos := l.readPos
	for i := 0; i < offset; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

// newline consumes a line terminator, treating CR LF as one.
func (l *Lexer) newline() {
	if l.ch == '\r' && l.peekChar() == '\n' {
		l.readChar()
	}
	l.readChar()
	l.line++
	l.col = 1
}

func isLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\u2028' || ch == '\u2029'
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\v', '\f', '\u00A0', '\uFEFF':
		return true
	}
	return ch > 127 && unicode.Is(unicode.Zs, ch)
}

// skipWhitespaceAndComments reports whether a line terminator was skipped.
func (l *Lexer) skipWhitespaceAndComments() bool {
	sawNewline := false
	lineStart := l.pos == 0
	for {
		switch {
		case isWhitespace(l.ch) && !l.atEOF():
			l.readChar()
		case isLineTerminator(l.ch):
			l.newline()
			sawNewline, lineStart = true, true
		case l.ch == '/' && l.peekChar() == '/':
			l.skipLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			if l.skipBlockComment() {
				sawNewline, lineStart = true, true
			}
		case l.ch == '<' && l.peekChar() == '!' && l.peekCharAt(1) == '-' && l.peekCharAt(2) == '-':
			// HTML-like comments are accepted in script code.
			l.skipLineComment()
		case lineStart && l.ch == '-' && l.peekChar() == '-' && l.peekCharAt(1) == '>':
			l.skipLineComment()
		default:
			return sawNewline
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !isLineTerminator(l.ch) && !l.atEOF() {
		l.readChar()
	}
}

// skipBlockComment reports whether the comment spans a line terminator.
func (l *Lexer) skipBlockComment() bool {
	l.readChar()
	l.readChar()
	multiline := false
	for !l.atEOF() {
		if isLineTerminator(l.ch) {
			l.newline()
			multiline = true
			continue
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return multiline
		}
		l.readChar()
	}
	return multiline
}

// NextToken returns the next token, reading "/" as a division operator.
// The parser calls RescanRegExp where a regular expression is allowed.
func (l *Lexer) NextToken() token.Token {
	nl := l.skipWhitespaceAndComments()
	tok := l.scan()
	tok.NewlineBefore = nl
	tok.End = l.pos
	return tok
}

type opCand struct {
	lit string
	tt  token.TokenType
}

func (l *Lexer) scan() token.Token {
	line := l.line
	col := l.col
	start := l.pos

	tok := func(tt token.TokenType, lit string) token.Token {
		return token.Token{Type: tt, Literal: lit, Line: line, Column: col, Offset: start}
	}
	// op consumes the longest of the candidate operators starting at the
	// current character.
	op := func(cands ...opCand) token.Token {
		for _, c := range cands {
			if strings.HasPrefix(l.input[l.pos:], c.lit) {
				for range c.lit {
					l.readChar()
				}
				return tok(c.tt, c.lit)
			}
		}
		panic("lexer: no operator candidate matched")
	}

	if l.atEOF() {
		return tok(token.EOF, "")
	}

	switch l.ch {
	case '(':
		return op(opCand{"(", token.LeftParen})
	case ')':
		return op(opCand{")", token.RightParen})
	case '{':
		return op(opCand{"{", token.LeftBrace})
	case '}':
		return op(opCand{"}", token.RightBrace})
	case '[':
		return op(opCand{"[", token.LeftBracket})
	case ']':
		return op(opCand{"]", token.RightBracket})
	case ';':
		return op(opCand{";", token.Semicolon})
	case ':':
		return op(opCand{":", token.Colon})
	case ',':
		return op(opCand{",", token.Comma})
	case '~':
		return op(opCand{"~", token.BitwiseNot})
	case '?':
		return op(opCand{"?", token.QuestionMark})
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(line, col)
		}
		return op(opCand{".", token.Dot})
	case '+':
		return op(opCand{"++", token.Increment}, opCand{"+=", token.PlusAssign}, opCand{"+", token.Plus})
	case '-':
		return op(opCand{"--", token.Decrement}, opCand{"-=", token.MinusAssign}, opCand{"-", token.Minus})
	case '*':
		return op(opCand{"*=", token.AsteriskAssign}, opCand{"*", token.Asterisk})
	case '/':
		return op(opCand{"/=", token.SlashAssign}, opCand{"/", token.Slash})
	case '%':
		return op(opCand{"%=", token.PercentAssign}, opCand{"%", token.Percent})
	case '=':
		return op(opCand{"===", token.StrictEqual}, opCand{"==", token.Equal}, opCand{"=", token.Assign})
	case '!':
		return op(opCand{"!==", token.StrictNotEqual}, opCand{"!=", token.NotEqual}, opCand{"!", token.Not})
	case '<':
		return op(opCand{"<<=", token.LeftShiftAssign}, opCand{"<<", token.LeftShift},
			opCand{"<=", token.LessThanOrEqual}, opCand{"<", token.LessThan})
	case '>':
		return op(opCand{">>>=", token.UnsignedRightShiftAssign}, opCand{">>>", token.UnsignedRightShift},
			opCand{">>=", token.RightShiftAssign}, opCand{">>", token.RightShift},
			opCand{">=", token.GreaterThanOrEqual}, opCand{">", token.GreaterThan})
	case '&':
		return op(opCand{"&&", token.And}, opCand{"&=", token.AmpersandAssign}, opCand{"&", token.BitwiseAnd})
	case '|':
		return op(opCand{"||", token.Or}, opCand{"|=", token.PipeAssign}, opCand{"|", token.BitwiseOr})
	case '^':
		return op(opCand{"^=", token.CaretAssign}, opCand{"^", token.BitwiseXor})
	case '"', '\'':
		return l.readString(line, col)
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(line, col)
	case isIdentStart(l.ch) || l.ch == '\\':
		return l.readIdentifier(line, col)
	}
	ch := l.ch
	l.readChar()
	return tok(token.Illegal, string(ch))
}

// RescanRegExp rereads the source at tok, a "/" or "/=" token, as a
// regular expression literal. Tokens lexed after tok are discarded.
func (l *Lexer) RescanRegExp(tok token.Token) token.Token {
	l.readPos = tok.Offset
	l.line = tok.Line
	l.col = tok.Column - 1
	l.readChar()
	re := l.readRegExp(tok.Line, tok.Column)
	re.NewlineBefore = tok.NewlineBefore
	re.End = l.pos
	return re
}

func (l *Lexer) illegal(msg string, line, col, start int) token.Token {
	return token.Token{Type: token.Illegal, Literal: msg, Line: line, Column: col, Offset: start}
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.pos
	var buf strings.Builder
	hasEscape := false

	for isIdentPart(l.ch) || l.ch == '\\' {
		if l.ch == '\\' {
			hasEscape = true
			l.readChar() // consume backslash
			if l.ch != 'u' {
				return l.illegal("invalid escape in identifier", line, col, start)
			}
			l.readChar() // consume 'u'
			r := l.readUnicodeEscape()
			if r < 0 {
				return l.illegal("invalid unicode escape", line, col, start)
			}
			if buf.Len() == 0 && !isIdentStart(rune(r)) || !isIdentPart(rune(r)) {
				return l.illegal("invalid identifier escape", line, col, start)
			}
			buf.WriteRune(rune(r))
		} else {
			buf.WriteRune(l.ch)
			l.readChar()
		}
	}

	var literal string
	if hasEscape {
		literal = buf.String()
	} else {
		literal = l.input[start:l.pos]
	}

	tt := token.LookupIdentifier(literal)
	if hasEscape && tt != token.Identifier {
		return l.illegal("keyword must not contain escaped characters", line, col, start)
	}
	return token.Token{Type: tt, Literal: literal, Line: line, Column: col, Offset: start}
}

// writeUTF16CodeUnit writes a UTF-16 code unit (including surrogates) to a string builder.
// Surrogates use the 3-byte WTF-8 form rather than the replacement
// character that WriteRune would produce.
func writeUTF16CodeUnit(buf *strings.Builder, cu uint16) {
	if cu < 0x80 {
		buf.WriteByte(byte(cu))
	} else if cu < 0x800 {
		buf.WriteByte(byte(0xC0 | (cu >> 6)))
		buf.WriteByte(byte(0x80 | (cu & 0x3F)))
	} else {
		buf.WriteByte(byte(0xE0 | (cu >> 12)))
		buf.WriteByte(byte(0x80 | ((cu >> 6) & 0x3F)))
		buf.WriteByte(byte(0x80 | (cu & 0x3F)))
	}
}

// readUnicodeEscape reads exactly four hex digits.
func (l *Lexer) readUnicodeEscape() int {
	val := 0
	for i := 0; i < 4; i++ {
		d := hexVal(l.ch)
		if d < 0 {
			return -1
		}
		val = val*16 + d
		l.readChar()
	}
	return val
}

func (l *Lexer) readString(line, col int) token.Token {
	start := l.pos
	quote := l.ch
	l.readChar() // skip opening quote
	var buf strings.Builder
	octal := false
	// pending holds a high surrogate from a \u escape until we know
	// whether a low surrogate escape follows it.
	pending := -1
	flush := func() {
		if pending >= 0 {
			writeUTF16CodeUnit(&buf, uint16(pending))
			pending = -1
		}
	}

	for l.ch != quote && !l.atEOF() && !isLineTerminator(l.ch) {
		if l.ch != '\\' {
			flush()
			buf.WriteRune(l.ch)
			l.readChar()
			continue
		}
		l.readChar()
		if l.ch == 'u' {
			l.readChar()
			r := l.readUnicodeEscape()
			if r < 0 {
				return l.illegal("invalid unicode escape", line, col, start)
			}
			switch {
			case r >= 0xDC00 && r <= 0xDFFF && pending >= 0:
				buf.WriteRune(rune(0x10000 + (pending-0xD800)*0x400 + (r - 0xDC00)))
				pending = -1
			case r >= 0xD800 && r <= 0xDBFF:
				flush()
				pending = r
			case r >= 0xD800 && r <= 0xDFFF:
				flush()
				writeUTF16CodeUnit(&buf, uint16(r))
			default:
				flush()
				buf.WriteRune(rune(r))
			}
			continue
		}
		flush()
		switch l.ch {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case 'v':
			buf.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if l.ch == '0' && !isDigit(l.peekChar()) {
				buf.WriteByte(0)
				break
			}
			octal = true
			val := int(l.ch - '0')
			first := val
			l.readChar()
			if isOctalDigit(l.ch) {
				val = val*8 + int(l.ch-'0')
				l.readChar()
				if first <= 3 && isOctalDigit(l.ch) {
					val = val*8 + int(l.ch-'0')
					l.readChar()
				}
			}
			writeUTF16CodeUnit(&buf, uint16(val))
			continue
		case 'x':
			l.readChar()
			d1 := hexVal(l.ch)
			l.readChar()
			d2 := hexVal(l.ch)
			if d1 < 0 || d2 < 0 {
				return l.illegal("invalid hex escape", line, col, start)
			}
			buf.WriteRune(rune(d1*16 + d2))
		case '\n', '\r', '\u2028', '\u2029':
			// Line continuation contributes nothing.
			l.newline()
			continue
		default:
			if l.atEOF() {
				return l.illegal("unterminated string", line, col, start)
			}
			buf.WriteRune(l.ch)
		}
		l.readChar()
	}
	flush()

	if l.ch != quote || l.atEOF() {
		return l.illegal("unterminated string", line, col, start)
	}
	l.readChar() // skip closing quote
	return token.Token{
		Type: token.String, Literal: buf.String(), Line: line, Column: col,
		Offset: start, Octal: octal, Raw: l.input[start:l.pos],
	}
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.pos
	octal := false

	switch {
	case l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X'):
		l.readChar() // 0
		l.readChar() // x
		if !isHexDigit(l.ch) {
			return l.illegal("invalid hex literal", line, col, start)
		}
		for isHexDigit(l.ch) {
			l.readChar()
		}
	case l.ch == '0' && isDigit(l.peekChar()):
		// Legacy octal, or decimal when an 8 or 9 appears.
		octal = true
		l.readChar()
		for isDigit(l.ch) {
			if l.ch >= '8' {
				octal = false
			}
			l.readChar()
		}
		if !octal {
			l.readFractionAndExponent()
		}
	default:
		l.readDecimalDigits()
		l.readFractionAndExponent()
	}

	if isIdentStart(l.ch) || isDigit(l.ch) {
		return l.illegal("identifier starts immediately after numeric literal", line, col, start)
	}
	raw := l.input[start:l.pos]
	return token.Token{Type: token.Number, Literal: raw, Line: line, Column: col, Offset: start, Octal: octal, Raw: raw}
}

func (l *Lexer) readFractionAndExponent() {
	if l.ch == '.' {
		l.readChar()
		l.readDecimalDigits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDecimalDigits()
		}
	}
}

func (l *Lexer) readDecimalDigits() {
	for isDigit(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readRegExp(line, col int) token.Token {
	start := l.pos
	var buf strings.Builder
	buf.WriteByte('/')
	l.readChar() // skip opening /

	inCharClass := false
	for {
		if l.atEOF() || isLineTerminator(l.ch) {
			return l.illegal("unterminated regexp", line, col, start)
		}
		if l.ch == '\\' {
			buf.WriteRune(l.ch)
			l.readChar()
			if l.atEOF() || isLineTerminator(l.ch) {
				return l.illegal("unterminated regexp", line, col, start)
			}
			buf.WriteRune(l.ch)
			l.readChar()
			continue
		}
		if l.ch == '[' {
			inCharClass = true
		} else if l.ch == ']' {
			inCharClass = false
		}
		if l.ch == '/' && !inCharClass {
			buf.WriteByte('/')
			l.readChar()
			break
		}
		buf.WriteRune(l.ch)
		l.readChar()
	}

	// Read flags
	for isIdentPart(l.ch) {
		buf.WriteRune(l.ch)
		l.readChar()
	}

	return token.Token{Type: token.RegExp, Literal: buf.String(), Line: line, Column: col, Offset: start}
}

// Tokenize returns all tokens from the input, reading "/" after a token
// that cannot end an expression as the start of a regular expression.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	prevType := token.EOF

	for {
		tok := l.NextToken()
		if (tok.Type == token.Slash || tok.Type == token.SlashAssign) && canPrecedeRegex(prevType) {
			tok = l.RescanRegExp(tok)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
		prevType = tok.Type
	}
	return tokens
}

func canPrecedeRegex(tt token.TokenType) bool {
	switch tt {
	case token.Identifier, token.Number, token.String, token.RegExp, token.True, token.False,
		token.Null, token.This, token.RightParen, token.RightBracket, token.RightBrace,
		token.Increment, token.Decrement:
		return false
	}
	return true
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch rune) bool {
	return ch >= '0' && ch <= '7'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch > 127 && (unicode.IsLetter(ch) || unicode.Is(unicode.Nl, ch)))
}

func isIdentPart(ch rune) bool {
	if isIdentStart(ch) || isDigit(ch) || ch == '\u200C' || ch == '\u200D' {
		return true
	}
	return ch > 127 && unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func hexVal(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	default:
		return -1
	}
}
