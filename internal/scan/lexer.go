package scan

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/3-lines-studio/routegen/internal/core"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokAt
	tokLabel // '@' glued to an identifier, as in return@forEach
	tokString
	tokChar
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer recognises just enough Kotlin to find declarations: it never
// interprets expressions, but it must skip comments, strings and character
// literals so that braces inside them do not disturb nesting.
type lexer struct {
	file   string
	src    []byte
	pos    int
	line   int
	col    int
	tokens []token
}

func lex(file string, src []byte) ([]token, error) {
	l := &lexer{file: file, src: src, line: 1, col: 1}

	if bytes.HasPrefix(src, []byte("#!")) {
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.advance(1)
		}
	}

	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		if l.pos >= len(l.src) {
			break
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, token{kind: tokEOF, line: l.line, col: l.col})
	return l.tokens, nil
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &core.ParseError{File: l.file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.src[l.pos:], []byte(s))
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == ' ', l.src[l.pos] == '\t', l.src[l.pos] == '\r', l.src[l.pos] == '\n', l.src[l.pos] == '\f':
			l.advance(1)
		case l.hasPrefix("//"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		case l.hasPrefix("/*"):
			if err := l.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// Kotlin block comments nest.
func (l *lexer) blockComment() error {
	line, col := l.line, l.col
	l.advance(2)
	depth := 1
	for depth > 0 {
		switch {
		case l.pos >= len(l.src):
			return l.errorf(line, col, "unterminated block comment")
		case l.hasPrefix("/*"):
			depth++
			l.advance(2)
		case l.hasPrefix("*/"):
			depth--
			l.advance(2)
		default:
			l.advance(1)
		}
	}
	return nil
}

func (l *lexer) next() error {
	start, line, col := l.pos, l.line, l.col
	r, size := utf8.DecodeRune(l.src[l.pos:])

	kind := tokPunct
	switch {
	case r == '"':
		kind = tokString
		if err := l.stringLiteral(); err != nil {
			return err
		}
	case r == '\'':
		kind = tokChar
		if err := l.charLiteral(); err != nil {
			return err
		}
	case r == '`':
		kind = tokIdent
		l.advance(1)
		for {
			if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
				return l.errorf(line, col, "unterminated quoted identifier")
			}
			if l.src[l.pos] == '`' {
				l.advance(1)
				break
			}
			l.advance(1)
		}
	case r == '@':
		kind = tokAt
		if l.isLabel(start) {
			kind = tokLabel
		}
		l.advance(1)
	case isIdentStart(r):
		kind = tokIdent
		for l.pos < len(l.src) {
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if !isIdentRune(r) {
				break
			}
			l.advance(size)
		}
	case r >= '0' && r <= '9':
		kind = tokNumber
		for l.pos < len(l.src) {
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if !isIdentRune(r) && r != '.' {
				break
			}
			l.advance(size)
		}
	default:
		l.advance(size)
	}

	l.tokens = append(l.tokens, token{kind: kind, text: string(l.src[start:l.pos]), line: line, col: col})
	return nil
}

// isLabel reports whether the '@' at pos is glued to a preceding identifier,
// as in return@forEach. An identifier that is itself an annotation name, as
// in @Page@Composable, starts a new annotation instead.
func (l *lexer) isLabel(pos int) bool {
	i := pos
	for i > 0 {
		r, size := utf8.DecodeLastRune(l.src[:i])
		if !isIdentRune(r) && r != '.' {
			break
		}
		i -= size
	}
	if i == pos {
		return false
	}
	prev, _ := utf8.DecodeLastRune(l.src[:i])
	return i == 0 || prev != '@'
}

func (l *lexer) stringLiteral() error {
	if l.hasPrefix(`"""`) {
		return l.rawString()
	}

	line, col := l.line, l.col
	l.advance(1)
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return l.errorf(line, col, "unterminated string literal")
		}
		switch {
		case l.src[l.pos] == '\\':
			l.advance(2)
		case l.src[l.pos] == '"':
			l.advance(1)
			return nil
		case l.hasPrefix("${"):
			if err := l.template(); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

// A raw string ends at the last quote of the first run of three or more.
func (l *lexer) rawString() error {
	line, col := l.line, l.col
	l.advance(3)
	for {
		switch {
		case l.pos >= len(l.src):
			return l.errorf(line, col, "unterminated raw string literal")
		case l.hasPrefix(`"""`):
			for l.pos < len(l.src) && l.src[l.pos] == '"' {
				l.advance(1)
			}
			return nil
		case l.hasPrefix("${"):
			if err := l.template(); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

// template skips a ${...} expression inside a string literal, including any
// nested string literals it contains.
func (l *lexer) template() error {
	line, col := l.line, l.col
	l.advance(2)
	depth := 1
	for {
		if err := l.skipSpace(); err != nil {
			return err
		}
		if l.pos >= len(l.src) {
			return l.errorf(line, col, "unterminated string template")
		}
		switch l.src[l.pos] {
		case '{':
			depth++
			l.advance(1)
		case '}':
			depth--
			l.advance(1)
			if depth == 0 {
				return nil
			}
		case '"':
			if err := l.stringLiteral(); err != nil {
				return err
			}
		case '\'':
			if err := l.charLiteral(); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

func (l *lexer) charLiteral() error {
	line, col := l.line, l.col
	l.advance(1)
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return l.errorf(line, col, "unterminated character literal")
		}
		switch l.src[l.pos] {
		case '\\':
			l.advance(2)
		case '\'':
			l.advance(1)
			return nil
		default:
			l.advance(1)
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
