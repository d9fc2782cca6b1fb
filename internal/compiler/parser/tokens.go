// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"fmt"

	"github.com/hackvm/jackc/internal/compiler/position"
)

// Kind enumerates the types of lexical tokens in a Jack program.
type Kind int

const (
	INVALID Kind = iota // A lexical error; the Spelling holds the message.
	EOF                 // End of input.
	KEYWORD
	SYMBOL
	IDENTIFIER
	INT_CONST
	STRING_CONST
)

var kindNames = map[Kind]string{
	INVALID:      "INVALID",
	EOF:          "EOF",
	KEYWORD:      "keyword",
	SYMBOL:       "symbol",
	IDENTIFIER:   "identifier",
	INT_CONST:    "integerConstant",
	STRING_CONST: "stringConstant",
}

// String returns a readable name of the token Kind.  The names of the
// lexical kinds are the element names used when rendering tokens as XML.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keyword identifies one of the reserved words of the language.
type Keyword int

const (
	NoKeyword Keyword = iota
	Class
	Constructor
	Function
	Method
	Field
	Static
	Var
	Int
	Char
	Boolean
	Void
	True
	False
	Null
	This
	Let
	Do
	If
	Else
	While
	Return
)

// List of keywords.  Keep this list sorted!
var keywords = map[string]Keyword{
	"boolean":     Boolean,
	"char":        Char,
	"class":       Class,
	"constructor": Constructor,
	"do":          Do,
	"else":        Else,
	"false":       False,
	"field":       Field,
	"function":    Function,
	"if":          If,
	"int":         Int,
	"let":         Let,
	"method":      Method,
	"null":        Null,
	"return":      Return,
	"static":      Static,
	"this":        This,
	"true":        True,
	"var":         Var,
	"void":        Void,
	"while":       While,
}

var keywordNames = func() map[Keyword]string {
	m := make(map[Keyword]string, len(keywords))
	for s, k := range keywords {
		m[k] = s
	}
	return m
}()

func (k Keyword) String() string {
	if s, ok := keywordNames[k]; ok {
		return s
	}
	return "<none>"
}

// LookupKeyword returns the Keyword spelled s, or NoKeyword.
func LookupKeyword(s string) Keyword {
	return keywords[s]
}

// Dictionary returns a list of all keywords of the language.
func Dictionary() (r []string) {
	for k := range keywords {
		r = append(r, k)
	}
	return
}

// Symbols that are tokens on their own.  '^' and '#' are the shift-left and
// shift-right unary operators.
const symbols = "{}()[].,;+-*/&|<>=~^#"

// Symbols with a distinct display form when rendered as XML.
var displayForms = map[string]string{
	"<": "&lt;",
	">": "&gt;",
	"&": "&amp;",
}

// Token describes a lexed Token from the input, containing its type, the
// original text of the Token, and its position in the input.  The Spelling
// of a STRING_CONST excludes the delimiting quotes.
type Token struct {
	Kind     Kind
	Spelling string
	Pos      position.Position
}

// String returns a printable form of a Token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q,%s)", t.Kind.String(), t.Spelling, t.Pos)
}

// Keyword returns the keyword identity of t, or NoKeyword if t is not a keyword.
func (t Token) Keyword() Keyword {
	if t.Kind != KEYWORD {
		return NoKeyword
	}
	return LookupKeyword(t.Spelling)
}

// Is reports whether t is the symbol or keyword spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == SYMBOL || t.Kind == KEYWORD) && t.Spelling == s
}

// Display returns the spelling of t as it is rendered for display, with the
// markup-sensitive symbols escaped.
func (t Token) Display() string {
	if t.Kind == SYMBOL {
		if d, ok := displayForms[t.Spelling]; ok {
			return d
		}
	}
	return t.Spelling
}
