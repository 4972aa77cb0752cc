package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies the terminals shared by the Turtle, N-Triples and
// query grammars.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokBlank
	tokVar
	tokString
	tokAtWord
	tokInteger
	tokDecimal
	tokDouble
	tokWord
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIRI:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokBlank:
		return "blank node"
	case tokVar:
		return "variable"
	case tokString:
		return "string"
	case tokAtWord:
		return "@-keyword"
	case tokInteger, tokDecimal, tokDouble:
		return "number"
	case tokWord:
		return "keyword"
	case tokPunct:
		return "punctuation"
	default:
		return "unknown token"
	}
}

type token struct {
	kind   tokenKind
	text   string // decoded value; IRIs without brackets, strings without quotes
	prefix string // prefixed names only
	local  string // prefixed names only
	pos    int
}

// punctuators are matched longest first.
var punctuators = []string{
	"^^", "&&", "||", "!=", "<=", ">=",
	".", ",", ";", "[", "]", "(", ")", "{", "}",
	"*", "!", "=", "<", ">", "+", "-", "/",
}

type lexer struct {
	input  string
	pos    int
	format Format
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	line, column := positionOf(l.input, pos)
	return &ParseError{Format: string(l.format), Line: line, Column: column, Err: fmt.Errorf(format, args...)}
}

func (l *lexer) errorWrap(pos int, err error) error {
	line, column := positionOf(l.input, pos)
	return &ParseError{Format: string(l.format), Line: line, Column: column, Err: err}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		case '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.input[l.pos]
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case c == '<':
		tok, ok, err := l.scanIRI(start)
		if err != nil {
			return token{}, err
		}
		if ok {
			return tok, nil
		}
		return l.scanPunct(start)
	case c == '"' || c == '\'':
		return l.scanString(start)
	case c == '@':
		return l.scanAtWord(start)
	case c == '_' && strings.HasPrefix(l.input[l.pos:], "_:"):
		return l.scanBlank(start)
	case c == '?' || c == '$':
		return l.scanVar(start)
	case isDigit(c) || ((c == '+' || c == '-' || c == '.') && l.numberFollows()):
		return l.scanNumber(start), nil
	case c == ':' || isNameStart(r):
		return l.scanName(start), nil
	default:
		return l.scanPunct(start)
	}
}

func (l *lexer) scanPunct(start int) (token, error) {
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			l.pos += len(p)
			return token{kind: tokPunct, text: p, pos: start}, nil
		}
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return token{}, l.errorf(start, "unexpected character %q", r)
}

// scanIRI reads an IRIREF. It reports ok=false when the text at the cursor
// cannot be an IRI, leaving the cursor untouched so '<' lexes as an operator.
func (l *lexer) scanIRI(start int) (token, bool, error) {
	var b strings.Builder
	i := l.pos + 1
	for i < len(l.input) {
		c := l.input[i]
		switch {
		case c == '>':
			l.pos = i + 1
			return token{kind: tokIRI, text: b.String(), pos: start}, true, nil
		case c == '\\':
			r, n, err := decodeUnicodeEscape(l.input[i:])
			if err != nil {
				return token{}, false, l.errorWrap(i, err)
			}
			b.WriteRune(r)
			i += n
		case c <= ' ' || strings.IndexByte("<\"{}|^`", c) >= 0:
			return token{}, false, nil
		default:
			b.WriteByte(c)
			i++
		}
	}
	return token{}, false, nil
}

func (l *lexer) scanString(start int) (token, error) {
	quote := l.input[l.pos]
	delim := strings.Repeat(string(quote), 3)
	long := strings.HasPrefix(l.input[l.pos:], delim)
	if long {
		l.pos += 3
	} else {
		l.pos++
	}
	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token{}, l.errorf(start, "unterminated string")
		}
		c := l.input[l.pos]
		if long && strings.HasPrefix(l.input[l.pos:], delim) {
			// """a"""" ends with a quote inside the content.
			if l.pos+3 < len(l.input) && l.input[l.pos+3] == quote {
				b.WriteByte(quote)
				l.pos++
				continue
			}
			l.pos += 3
			return token{kind: tokString, text: b.String(), pos: start}, nil
		}
		if !long {
			if c == quote {
				l.pos++
				return token{kind: tokString, text: b.String(), pos: start}, nil
			}
			if c == '\n' || c == '\r' {
				return token{}, l.errorf(l.pos, "newline in short string")
			}
		}
		if c == '\\' {
			r, n, err := decodeStringEscape(l.input[l.pos:])
			if err != nil {
				return token{}, l.errorWrap(l.pos, err)
			}
			b.WriteRune(r)
			l.pos += n
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
}

func (l *lexer) scanAtWord(start int) (token, error) {
	l.pos++
	begin := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if isDigit(c) || c == '-' || (c < utf8.RuneSelf && unicode.IsLetter(rune(c))) {
			l.pos++
			continue
		}
		break
	}
	if begin == l.pos {
		return token{}, l.errorf(start, "empty @-keyword")
	}
	return token{kind: tokAtWord, text: l.input[begin:l.pos], pos: start}, nil
}

func (l *lexer) scanBlank(start int) (token, error) {
	l.pos += 2
	begin := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if isNameRune(r) || r == '.' {
			l.pos += size
			continue
		}
		break
	}
	for l.pos > begin && l.input[l.pos-1] == '.' {
		l.pos--
	}
	if begin == l.pos {
		return token{}, l.errorf(start, "blank node label missing")
	}
	return token{kind: tokBlank, text: l.input[begin:l.pos], pos: start}, nil
}

func (l *lexer) scanVar(start int) (token, error) {
	l.pos++
	begin := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if isNameRune(r) && r != '-' {
			l.pos += size
			continue
		}
		break
	}
	if begin == l.pos {
		return token{}, l.errorf(start, "variable name missing")
	}
	return token{kind: tokVar, text: l.input[begin:l.pos], pos: start}, nil
}

func (l *lexer) numberFollows() bool {
	i := l.pos
	if l.input[i] == '+' || l.input[i] == '-' {
		i++
	}
	if i < len(l.input) && l.input[i] == '.' {
		i++
	}
	return i < len(l.input) && isDigit(l.input[i])
}

func (l *lexer) scanNumber(start int) token {
	if c := l.input[l.pos]; c == '+' || c == '-' {
		l.pos++
	}
	l.skipDigits()
	kind := tokInteger
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++
		l.skipDigits()
		kind = tokDecimal
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.skipDigits()
			kind = tokDouble
		} else {
			l.pos = save
		}
	}
	return token{kind: kind, text: l.input[start:l.pos], pos: start}
}

func (l *lexer) skipDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

// scanName reads a bare keyword or a prefixed name. A trailing '.' belongs
// to the statement, not the name.
func (l *lexer) scanName(start int) token {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case r == '\\' && l.pos+1 < len(l.input):
			l.pos += 2
		case r == '%' || r == ':' || r == '.' || isNameRune(r):
			l.pos += size
		default:
			goto done
		}
	}
done:
	for l.pos > start+1 && l.input[l.pos-1] == '.' && l.input[l.pos-2] != '\\' {
		l.pos--
	}
	text := l.input[start:l.pos]
	prefix, local, ok := strings.Cut(text, ":")
	if !ok {
		return token{kind: tokWord, text: text, pos: start}
	}
	return token{kind: tokPName, text: text, prefix: prefix, local: unescapeLocal(local), pos: start}
}

func unescapeLocal(local string) string {
	if !strings.Contains(local, `\`) {
		return local
	}
	var b strings.Builder
	for i := 0; i < len(local); i++ {
		if local[i] == '\\' && i+1 < len(local) {
			i++
		}
		b.WriteByte(local[i])
	}
	return b.String()
}

func decodeStringEscape(s string) (rune, int, error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("unterminated escape")
	}
	switch s[1] {
	case 't':
		return '\t', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 'f':
		return '\f', 2, nil
	case '"', '\'', '\\':
		return rune(s[1]), 2, nil
	case 'u', 'U':
		return decodeUnicodeEscape(s)
	default:
		return 0, 0, fmt.Errorf("invalid escape \\%c", s[1])
	}
}

func decodeUnicodeEscape(s string) (rune, int, error) {
	if len(s) < 2 || (s[1] != 'u' && s[1] != 'U') {
		return 0, 0, fmt.Errorf("invalid escape in IRI")
	}
	width := 4
	if s[1] == 'U' {
		width = 8
	}
	if len(s) < 2+width {
		return 0, 0, fmt.Errorf("truncated unicode escape")
	}
	value, err := strconv.ParseUint(s[2:2+width], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid unicode escape %q", s[:2+width])
	}
	return rune(value), 2 + width, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	switch {
	case r == '_' || r == '-' || r == 0x00B7:
		return true
	case r >= 0x0300 && r <= 0x036F, r == 0x203F, r == 0x2040:
		return true
	default:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
}

// tokenStream adds one token of lookahead to a lexer.
type tokenStream struct {
	lex lexer
	tok token
	has bool
}

func newTokenStream(input string, format Format) *tokenStream {
	return &tokenStream{lex: lexer{input: input, format: format}}
}

func (s *tokenStream) peek() (token, error) {
	if !s.has {
		tok, err := s.lex.next()
		if err != nil {
			return token{}, err
		}
		s.tok, s.has = tok, true
	}
	return s.tok, nil
}

func (s *tokenStream) next() (token, error) {
	tok, err := s.peek()
	s.has = false
	return tok, err
}

// acceptPunct consumes the next token if it is the punctuator p.
func (s *tokenStream) acceptPunct(p string) (bool, error) {
	tok, err := s.peek()
	if err != nil {
		return false, err
	}
	if isPunct(tok, p) {
		s.has = false
		return true, nil
	}
	return false, nil
}

func (s *tokenStream) expectPunct(p string) error {
	tok, err := s.next()
	if err != nil {
		return err
	}
	if !isPunct(tok, p) {
		return s.unexpected(tok, "'"+p+"'")
	}
	return nil
}

func (s *tokenStream) unexpected(tok token, want string) error {
	if tok.kind == tokEOF {
		return s.lex.errorf(tok.pos, "expected %s, found end of input", want)
	}
	return s.lex.errorf(tok.pos, "expected %s, found %s %q", want, tok.kind, tok.text)
}

func isPunct(tok token, p string) bool {
	return tok.kind == tokPunct && tok.text == p
}

func isKeyword(tok token, word string) bool {
	return tok.kind == tokWord && strings.EqualFold(tok.text, word)
}
