// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/golang/glog"
	"github.com/hackvm/jackc/internal/compiler/position"
)

// DefaultMaxIntLiteral is the largest integer constant the language allows.
const DefaultMaxIntLiteral = 32767

// A stateFn represents each state the scanner can be in.
type stateFn func(*Lexer) stateFn

// A lexer holds the state of the scanner.
type Lexer struct {
	name  string        // Name of program.
	input *bufio.Reader // Source program
	state stateFn       // Current state function of the lexer.

	maxInt int // Largest integer constant accepted.

	// The "read cursor" in the input.
	rune  rune // The current rune.
	width int  // Width in bytes.
	line  int  // The line position of the current rune.
	col   int  // The column position of the current rune.

	// The currently being lexed token.
	startline int             // Line on which the current token, or comment, began.
	startcol  int             // Starting column of the current token.
	text      strings.Builder // the text of the current token

	tokens chan Token // Output channel for tokens emitted.
}

// NewLexer creates a new scanner type that reads the input provided.
func NewLexer(name string, input io.Reader) *Lexer {
	l := &Lexer{
		name:   name,
		input:  bufio.NewReader(input),
		state:  lexProg,
		maxInt: DefaultMaxIntLiteral,
		tokens: make(chan Token, 2),
	}
	return l
}

// NextToken returns the next token in the input.  When no token is available
// to be returned it executes the next action in the state machine.  Once the
// input is exhausted every call returns an EOF token.
func (l *Lexer) NextToken() Token {
	for {
		select {
		case tok := <-l.tokens:
			return tok
		default:
			if l.state == nil {
				return Token{Kind: EOF, Pos: position.Position{Filename: l.name, Line: l.line, Startcol: l.col, Endcol: l.col}}
			}
			l.state = l.state(l)
		}
	}
}

// emit passes a token to the client.
func (l *Lexer) emit(kind Kind) {
	pos := position.Position{Filename: l.name, Line: l.line, Startcol: l.startcol, Endcol: l.col - 1}
	glog.V(2).Infof("Emitting %v spelled %q at %v", kind, l.text.String(), pos)
	l.tokens <- Token{kind, l.text.String(), pos}
	// Reset the current token
	l.text.Reset()
	l.startcol = l.col
}

// Internal end of file value.
const eof rune = -1

// next returns the next rune in the input.
func (l *Lexer) next() rune {
	var err error
	l.rune, l.width, err = l.input.ReadRune()
	if errors.Is(err, io.EOF) {
		l.width = 1
		l.rune = eof
	}
	return l.rune
}

// peek returns the rune after the current one without consuming it.
func (l *Lexer) peek() rune {
	r, _, err := l.input.ReadRune()
	if err != nil {
		return eof
	}
	if err := l.input.UnreadRune(); err != nil {
		glog.Info(err)
	}
	return r
}

// backup indicates that we haven't yet dealt with the next rune. Use when
// terminating tokens on unknown runes.
func (l *Lexer) backup() {
	l.width = 0
	if l.rune == eof {
		return
	}
	if err := l.input.UnreadRune(); err != nil {
		glog.Info(err)
	}
}

// stepCursor moves the read cursor.
func (l *Lexer) stepCursor() {
	if l.rune == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col += l.width
	}
}

// accept accepts the current rune and its position into the current token.
func (l *Lexer) accept() {
	l.text.WriteRune(l.rune)
	l.stepCursor()
}

// skip does not accept the current rune into the current token's text, but
// does accept its position into the token. Use only at the start or end of a
// token.
func (l *Lexer) skip() {
	l.stepCursor()
}

// ignore skips over the current rune, removing it from the text of the token,
// and resetting the start position of the current token. Use only between
// tokens.
func (l *Lexer) ignore() {
	l.stepCursor()
	l.startcol = l.col
}

// errorf returns an error token and stops the scanner.
func (l *Lexer) errorf(format string, args ...interface{}) stateFn {
	pos := position.Position{
		Filename: l.name,
		Line:     l.startline,
		Startcol: l.startcol,
		Endcol:   l.col - 1,
	}
	if pos.Line != l.line {
		pos.Endcol = pos.Startcol
	}
	l.tokens <- Token{
		Kind:     INVALID,
		Spelling: fmt.Sprintf(format, args...),
		Pos:      pos,
	}
	// Reset the current token
	l.text.Reset()
	l.startcol = l.col
	return nil
}

// State functions.

// lexProg starts lexing a program.
func lexProg(l *Lexer) stateFn {
	l.startline = l.line
	switch r := l.next(); {
	case r == eof:
		l.skip()
		l.emit(EOF)
		// Stop the machine, we're done.
		return nil
	case isSpace(r):
		l.ignore()
	case r == '/':
		switch l.peek() {
		case '/':
			return lexLineComment
		case '*':
			return lexBlockComment
		}
		l.accept()
		l.emit(SYMBOL)
	case strings.ContainsRune(symbols, r):
		l.accept()
		l.emit(SYMBOL)
	case r == '"':
		return lexQuotedString
	case isDigit(r):
		l.backup()
		return lexNumeric
	case isAlpha(r) || r == '_':
		return lexIdentifier
	default:
		l.accept()
		return l.errorf("Unexpected input: %q", r)
	}
	return lexProg
}

// Lex a comment running to the end of the line.
func lexLineComment(l *Lexer) stateFn {
	l.ignore()
Loop:
	for {
		switch l.next() {
		case '\n':
			l.ignore()
			break Loop
		case eof:
			break Loop
		default:
			l.ignore()
		}
	}
	return lexProg
}

// Lex a block comment, `/* ... */` or `/** ... */`, which may span lines.
func lexBlockComment(l *Lexer) stateFn {
	startcol := l.startcol
	l.ignore() // The leading slash.
	l.next()
	l.ignore() // The star.
	for {
		switch l.next() {
		case eof:
			l.startcol = startcol
			return l.errorf("Unterminated comment")
		case '*':
			l.ignore()
			if l.peek() == '/' {
				l.next()
				l.ignore()
				return lexProg
			}
		default:
			l.ignore()
		}
	}
}

// Lex an integer constant.
func lexNumeric(l *Lexer) stateFn {
	r := l.next()
	for isDigit(r) {
		l.accept()
		r = l.next()
	}
	l.backup()
	n, err := strconv.Atoi(l.text.String())
	if err != nil || n > l.maxInt {
		return l.errorf("Integer constant %s out of range 0..%d", l.text.String(), l.maxInt)
	}
	l.emit(INT_CONST)
	return lexProg
}

// Lex a quoted string.  The text of a quoted string does not include the '"'
// quotes, and the characters between them are taken verbatim.
func lexQuotedString(l *Lexer) stateFn {
	l.skip() // Skip leading quote
Loop:
	for {
		switch l.next() {
		case eof, '\n':
			return l.errorf("Unterminated quoted string: \"\\\"%s\"", l.text.String())
		case '"':
			l.skip() // Skip trailing quote.
			break Loop
		default:
			l.accept()
		}
	}
	l.emit(STRING_CONST)
	return lexProg
}

// Lex an identifier, or keyword.
func lexIdentifier(l *Lexer) stateFn {
	l.accept()
Loop:
	for {
		switch r := l.next(); {
		case isAlnum(r) || r == '_':
			l.accept()
		default:
			l.backup()
			break Loop
		}
	}
	if LookupKeyword(l.text.String()) != NoKeyword {
		l.emit(KEYWORD)
	} else {
		l.emit(IDENTIFIER)
	}
	return lexProg
}

// Helper predicates.

// isAlpha reports whether r is an alphabetical rune.
func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

// isAlnum reports whether r is an alphanumeric rune.
func isAlnum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// isDigit reports whether r is a numerical rune.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isSpace reports whether r is whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
