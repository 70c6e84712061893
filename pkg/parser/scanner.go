package parser

import (
	"strconv"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
)

// Scanner turns source text into tokens. Lexical errors are collected and
// scanning continues with the next character.
type Scanner struct {
	source  []rune
	tokens  []ast.Token
	errors  []*SyntaxError
	start   int
	current int
	line    int
}

// NewScanner prepares a scanner over source.
func NewScanner(source string) *Scanner {
	return &Scanner{source: []rune(source), line: 1}
}

// ScanTokens scans the whole input. The token slice always ends with EOF.
func (s *Scanner) ScanTokens() ([]ast.Token, []*SyntaxError) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, ast.Token{Type: ast.TokenEOF, Line: s.line})
	return s.tokens, s.errors
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(ast.TokenLeftParen)
	case ')':
		s.addToken(ast.TokenRightParen)
	case '{':
		s.addToken(ast.TokenLeftBrace)
	case '}':
		s.addToken(ast.TokenRightBrace)
	case '[':
		s.addToken(ast.TokenLeftBracket)
	case ']':
		s.addToken(ast.TokenRightBracket)
	case ',':
		s.addToken(ast.TokenComma)
	case '.':
		s.addToken(ast.TokenDot)
	case '-':
		s.addToken(ast.TokenMinus)
	case '+':
		s.addToken(ast.TokenPlus)
	case ';':
		s.addToken(ast.TokenSemicolon)
	case '*':
		s.addToken(ast.TokenStar)
	case '?':
		s.addToken(ast.TokenQuestion)
	case ':':
		s.addToken(ast.TokenColon)
	case '!':
		s.addToken(s.choose('=', ast.TokenBangEqual, ast.TokenBang))
	case '=':
		s.addToken(s.choose('=', ast.TokenEqualEqual, ast.TokenEqual))
	case '<':
		s.addToken(s.choose('=', ast.TokenLessEqual, ast.TokenLess))
	case '>':
		s.addToken(s.choose('=', ast.TokenGreaterEqual, ast.TokenGreater))
	case '/':
		switch {
		case s.match('/'):
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		case s.match('*'):
			s.blockComment()
		default:
			s.addToken(ast.TokenSlash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.error("Unexpected character.", false)
		}
	}
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return
		}
		if s.advance() == '\n' {
			s.line++
		}
	}
	s.error("Unterminated comment.", true)
}

func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.error("Unterminated string.", true)
		return
	}
	s.advance()
	value := string(s.source[s.start+1 : s.current-1])
	s.addLiteral(ast.TokenString, value)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(string(s.source[s.start:s.current]), 64)
	if err != nil {
		s.error("Invalid number literal.", false)
		return
	}
	s.addLiteral(ast.TokenNumber, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := string(s.source[s.start:s.current])
	kind, ok := ast.Keywords[text]
	if !ok {
		kind = ast.TokenIdentifier
	}
	s.addToken(kind)
}

func (s *Scanner) choose(expected rune, matched, otherwise ast.TokenType) ast.TokenType {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() rune {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() rune {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(kind ast.TokenType) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind ast.TokenType, literal any) {
	s.tokens = append(s.tokens, ast.Token{
		Type:    kind,
		Lexeme:  string(s.source[s.start:s.current]),
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) error(message string, atEnd bool) {
	s.errors = append(s.errors, &SyntaxError{Line: s.line, Message: message, incomplete: atEnd})
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
