// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package errors holds the compile error types reported by the Jack compiler.
package errors

import (
	"fmt"
	"strings"

	"github.com/hackvm/jackc/internal/compiler/position"
	"github.com/pkg/errors"
)

// Kind classifies a compile error.
type Kind int

const (
	Internal   Kind = iota // A bug in the compiler.
	Lexical                // Malformed input text: unterminated string or comment, stray character, literal out of range.
	Syntax                 // The current token does not match the terminal the grammar expects.
	Resolution             // A name absent from both scopes, or a token read as the wrong kind.
	Definition             // A name defined twice in the same scope.
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Resolution:
		return "resolution"
	case Definition:
		return "definition"
	default:
		return "internal"
	}
}

type compileError struct {
	pos  position.Position
	kind Kind
	msg  string
}

func (e compileError) Error() string {
	return fmt.Sprintf("%s: %s error: %s", e.pos, e.kind, e.msg)
}

// ErrorList contains a list of compile errors.
type ErrorList []*compileError

// Add appends an error of the given kind at a position to the list of errors.
func (p *ErrorList) Add(pos *position.Position, kind Kind, msg string) {
	tag := position.Position{}
	if pos != nil {
		tag = *pos
	}
	*p = append(*p, &compileError{tag, kind, msg})
}

// ErrorList implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var r strings.Builder
	for i, e := range p {
		if i > 0 {
			r.WriteString("\n")
		}
		r.WriteString(e.Error())
	}
	return r.String()
}

// Kinds returns the kinds of each error in the list, in order.
func (p ErrorList) Kinds() []Kind {
	r := make([]Kind, 0, len(p))
	for _, e := range p {
		r = append(r, e.kind)
	}
	return r
}

// HasKind reports whether err is, or wraps, an ErrorList containing an error of kind k.
func HasKind(err error, k Kind) bool {
	var l ErrorList
	if !errors.As(err, &l) {
		return false
	}
	for _, e := range l {
		if e.kind == k {
			return true
		}
	}
	return false
}
