// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hackvm/jackc/internal/compiler/errors"
)

// Tokenizer presents the lexer's output as a forward-only cursor over the
// token stream: a current token plus accessors that interpret it.
// Initially there is no current token; call Advance first.
type Tokenizer struct {
	l *Lexer

	cur     Token
	peek    Token
	hasPeek bool
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// MaxIntLiteral sets the largest integer constant the lexer accepts.
func MaxIntLiteral(n int) TokenizerOption {
	return func(t *Tokenizer) {
		t.l.maxInt = n
	}
}

// NewTokenizer creates a Tokenizer reading the program named name from input.
func NewTokenizer(name string, input io.Reader, options ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{l: NewLexer(name, input)}
	for _, o := range options {
		o(t)
	}
	return t
}

func (t *Tokenizer) fill() {
	if !t.hasPeek {
		t.peek = t.l.NextToken()
		t.hasPeek = true
	}
}

// HasMoreTokens reports whether Advance would move to another token.  A
// pending lexical error counts as a token, so that Advance can report it.
func (t *Tokenizer) HasMoreTokens() bool {
	t.fill()
	return t.peek.Kind != EOF
}

// Advance makes the next token in the input the current token.  At the end
// of input the current token becomes EOF.  A lexical error in the input is
// returned as an errors.ErrorList with a single Lexical entry.
func (t *Tokenizer) Advance() error {
	t.fill()
	t.cur = t.peek
	t.hasPeek = false
	if t.cur.Kind == INVALID {
		var l errors.ErrorList
		l.Add(&t.cur.Pos, errors.Lexical, t.cur.Spelling)
		return l
	}
	return nil
}

// Current returns the current token.
func (t *Tokenizer) Current() Token {
	return t.cur
}

// TokenType returns the Kind of the current token.
func (t *Tokenizer) TokenType() Kind {
	return t.cur.Kind
}

func (t *Tokenizer) wrongKind(want Kind) error {
	var l errors.ErrorList
	l.Add(&t.cur.Pos, errors.Resolution, fmt.Sprintf("expected %s, got %s %q", want, t.cur.Kind, t.cur.Spelling))
	return l
}

// Keyword returns the keyword identity of the current token.
func (t *Tokenizer) Keyword() (Keyword, error) {
	if t.cur.Kind != KEYWORD {
		return NoKeyword, t.wrongKind(KEYWORD)
	}
	return LookupKeyword(t.cur.Spelling), nil
}

// Symbol returns the character of the current symbol token.
func (t *Tokenizer) Symbol() (byte, error) {
	if t.cur.Kind != SYMBOL {
		return 0, t.wrongKind(SYMBOL)
	}
	return t.cur.Spelling[0], nil
}

// Identifier returns the name held by the current identifier token.
func (t *Tokenizer) Identifier() (string, error) {
	if t.cur.Kind != IDENTIFIER {
		return "", t.wrongKind(IDENTIFIER)
	}
	return t.cur.Spelling, nil
}

// IntVal returns the value of the current integer constant token.
func (t *Tokenizer) IntVal() (int, error) {
	if t.cur.Kind != INT_CONST {
		return 0, t.wrongKind(INT_CONST)
	}
	n, err := strconv.Atoi(t.cur.Spelling)
	if err != nil {
		return 0, t.wrongKind(INT_CONST)
	}
	return n, nil
}

// StringVal returns the text of the current string constant token, without
// its delimiting quotes.
func (t *Tokenizer) StringVal() (string, error) {
	if t.cur.Kind != STRING_CONST {
		return "", t.wrongKind(STRING_CONST)
	}
	return t.cur.Spelling, nil
}
