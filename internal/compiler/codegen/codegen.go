// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package codegen implements the Jack compilation engine: a single-pass
// recursive descent parser that emits virtual machine instructions as each
// construct is recognised.  No syntax tree is built.
package codegen

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/hackvm/jackc/internal/compiler/code"
	"github.com/hackvm/jackc/internal/compiler/errors"
	"github.com/hackvm/jackc/internal/compiler/parser"
	"github.com/hackvm/jackc/internal/compiler/position"
	"github.com/hackvm/jackc/internal/compiler/symbol"
	pkgerrors "github.com/pkg/errors"
)

// Emitter receives the generated instructions in source order.
type Emitter interface {
	WritePush(segment code.Segment, index int)
	WritePop(segment code.Segment, index int)
	WriteArithmetic(op code.Opcode)
	WriteLabel(label string)
	WriteGoto(label string)
	WriteIf(label string)
	WriteCall(name string, nArgs int)
	WriteFunction(name string, nLocals int)
	WriteReturn()
}

// TokenSource is a forward-only cursor over the tokens of one class.
type TokenSource interface {
	Advance() error
	Current() parser.Token
	Identifier() (string, error)
	IntVal() (int, error)
	StringVal() (string, error)
}

// Labels for control flow, suffixed with a per-subroutine occurrence count.
const (
	whileExpLabel = "WHILE_EXP"
	whileEndLabel = "WHILE_END"
	ifTrueLabel   = "IF_TRUE"
	ifFalseLabel  = "IF_FALSE"
	ifEndLabel    = "IF_END"
)

// OS routines the generated code relies on.
const (
	allocFunc      = "Memory.alloc"
	multiplyFunc   = "Math.multiply"
	divideFunc     = "Math.divide"
	stringNewFunc  = "String.new"
	appendCharFunc = "String.appendChar"
)

// Binary operators.  Multiplication and division are OS calls.
var binaryOps = map[string]code.Opcode{
	"+": code.Add,
	"-": code.Sub,
	"=": code.Eq,
	"<": code.Lt,
	">": code.Gt,
	"&": code.And,
	"|": code.Or,
	"*": code.Bad,
	"/": code.Bad,
}

var unaryOps = map[string]code.Opcode{
	"-": code.Neg,
	"~": code.Not,
	"^": code.Shiftleft,
	"#": code.Shiftright,
}

// codegen represents a code generator for one class.
type codegen struct {
	t  TokenSource
	w  Emitter
	st *symbol.Table

	className string

	// Label counters, reset for each subroutine.
	ifCount    int
	whileCount int
}

// bailout carries a compile error up through the recursive descent.
type bailout struct {
	errs errors.ErrorList
}

// CodeGen compiles the single class read from t, emitting its instructions
// to w.  The first error stops compilation; it is returned as an
// errors.ErrorList and any instructions already emitted should be discarded.
func CodeGen(t TokenSource, w Emitter) (err error) {
	c := &codegen{t: t, w: w, st: symbol.NewTable()}
	defer c.recover(&err)
	c.next()
	c.compileClass()
	if tok := c.tok(); tok.Kind != parser.EOF {
		c.errorf(tok.Pos, errors.Syntax, "expected end of input after class %s, got %s", c.className, describe(tok))
	}
	return nil
}

func (c *codegen) recover(errp *error) {
	if e := recover(); e != nil {
		b, ok := e.(bailout)
		if !ok {
			panic(e)
		}
		*errp = b.errs
	}
}

func (c *codegen) errorf(pos position.Position, kind errors.Kind, format string, args ...interface{}) {
	var l errors.ErrorList
	l.Add(&pos, kind, fmt.Sprintf(format, args...))
	panic(bailout{l})
}

// fail stops compilation with an error returned by a collaborator.
func (c *codegen) fail(err error) {
	var l errors.ErrorList
	if pkgerrors.As(err, &l) {
		panic(bailout{l})
	}
	c.errorf(c.tok().Pos, errors.Internal, "%s", err)
}

func describe(tok parser.Token) string {
	if tok.Kind == parser.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Spelling)
}

func (c *codegen) tok() parser.Token {
	return c.t.Current()
}

// next advances to the next token.
func (c *codegen) next() {
	if err := c.t.Advance(); err != nil {
		c.fail(err)
	}
}

// expect consumes the symbol or keyword spelled s.
func (c *codegen) expect(s string) {
	if tok := c.tok(); !tok.Is(s) {
		c.errorf(tok.Pos, errors.Syntax, "expected %q, got %s", s, describe(tok))
	}
	c.next()
}

// identifier consumes an identifier and returns its name.
func (c *codegen) identifier() string {
	name, err := c.t.Identifier()
	if err != nil {
		c.errorf(c.tok().Pos, errors.Syntax, "expected identifier, got %s", describe(c.tok()))
	}
	c.next()
	return name
}

// typeName consumes a type: int, char, boolean, a class name, or void if allowed.
func (c *codegen) typeName(allowVoid bool) string {
	tok := c.tok()
	switch tok.Keyword() {
	case parser.Int, parser.Char, parser.Boolean:
		c.next()
		return tok.Spelling
	case parser.Void:
		if allowVoid {
			c.next()
			return tok.Spelling
		}
	case parser.NoKeyword:
		if tok.Kind == parser.IDENTIFIER {
			c.next()
			return tok.Spelling
		}
	}
	c.errorf(tok.Pos, errors.Syntax, "expected type, got %s", describe(tok))
	return ""
}

func (c *codegen) define(name, typ string, kind symbol.Kind, pos position.Position) {
	if _, err := c.st.Define(name, typ, kind); err != nil {
		if pkgerrors.Is(err, symbol.ErrRedefined) {
			c.errorf(pos, errors.Definition, "%s", err)
		}
		c.errorf(pos, errors.Internal, "%s", err)
	}
	glog.V(2).Infof("defined %s %s %s", kind, typ, name)
}

// resolve returns the symbol for a variable reference.
func (c *codegen) resolve(name string, pos position.Position) *symbol.Symbol {
	sym := c.st.Lookup(name)
	if sym == nil {
		c.errorf(pos, errors.Resolution, "unknown variable %q", name)
	}
	return sym
}

func segmentOf(k symbol.Kind) code.Segment {
	switch k {
	case symbol.Static:
		return code.Static
	case symbol.Field:
		return code.Field
	case symbol.Arg:
		return code.Arg
	case symbol.Var:
		return code.Var
	}
	return ""
}

func (c *codegen) push(sym *symbol.Symbol) {
	c.w.WritePush(segmentOf(sym.Kind), sym.Index)
}

func (c *codegen) pop(sym *symbol.Symbol) {
	c.w.WritePop(segmentOf(sym.Kind), sym.Index)
}

// class: 'class' className '{' classVarDec* subroutineDec* '}'
func (c *codegen) compileClass() {
	c.expect("class")
	c.className = c.identifier()
	glog.V(2).Infof("compiling class %s", c.className)
	c.expect("{")
	for {
		kw := c.tok().Keyword()
		if kw != parser.Static && kw != parser.Field {
			break
		}
		c.compileClassVarDec()
	}
	for {
		kw := c.tok().Keyword()
		if kw != parser.Constructor && kw != parser.Function && kw != parser.Method {
			break
		}
		c.st.StartSubroutine()
		c.ifCount = 0
		c.whileCount = 0
		c.compileSubroutine()
	}
	c.expect("}")
}

// classVarDec: ('static' | 'field') type varName (',' varName)* ';'
func (c *codegen) compileClassVarDec() {
	kind := symbol.Field
	if c.tok().Keyword() == parser.Static {
		kind = symbol.Static
	}
	c.next()
	typ := c.typeName(false)
	for {
		pos := c.tok().Pos
		c.define(c.identifier(), typ, kind, pos)
		if !c.tok().Is(",") {
			break
		}
		c.next()
	}
	c.expect(";")
}

// subroutineDec: ('constructor' | 'function' | 'method') ('void' | type)
// subroutineName '(' parameterList ')' subroutineBody
func (c *codegen) compileSubroutine() {
	kind := c.tok().Keyword()
	c.next()
	c.typeName(true)
	name := c.identifier()
	glog.V(2).Infof("compiling %s %s.%s", kind, c.className, name)
	if kind == parser.Method {
		c.define("this", c.className, symbol.Arg, c.tok().Pos)
	}
	c.expect("(")
	c.compileParameterList()
	c.expect(")")
	c.compileSubroutineBody(name, kind)
}

// parameterList: ((type varName) (',' type varName)*)?
func (c *codegen) compileParameterList() {
	if c.tok().Is(")") {
		return
	}
	for {
		typ := c.typeName(false)
		pos := c.tok().Pos
		c.define(c.identifier(), typ, symbol.Arg, pos)
		if !c.tok().Is(",") {
			return
		}
		c.next()
	}
}

// subroutineBody: '{' varDec* statements '}'
func (c *codegen) compileSubroutineBody(name string, kind parser.Keyword) {
	c.expect("{")
	for c.tok().Keyword() == parser.Var {
		c.compileVarDec()
	}
	c.w.WriteFunction(c.className+"."+name, c.st.VarCount(symbol.Var))
	switch kind {
	case parser.Constructor:
		c.w.WritePush(code.Constant, c.st.VarCount(symbol.Field))
		c.w.WriteCall(allocFunc, 1)
		c.w.WritePop(code.Pointer, 0)
	case parser.Method:
		c.w.WritePush(code.Argument, 0)
		c.w.WritePop(code.Pointer, 0)
	}
	c.compileStatements()
	c.expect("}")
}

// varDec: 'var' type varName (',' varName)* ';'
func (c *codegen) compileVarDec() {
	c.expect("var")
	typ := c.typeName(false)
	for {
		pos := c.tok().Pos
		c.define(c.identifier(), typ, symbol.Var, pos)
		if !c.tok().Is(",") {
			break
		}
		c.next()
	}
	c.expect(";")
}

// statements: statement*
func (c *codegen) compileStatements() {
	for {
		switch c.tok().Keyword() {
		case parser.Let:
			c.compileLet()
		case parser.If:
			c.compileIf()
		case parser.While:
			c.compileWhile()
		case parser.Do:
			c.compileDo()
		case parser.Return:
			c.compileReturn()
		default:
			return
		}
	}
}

// letStatement: 'let' varName ('[' expression ']')? '=' expression ';'
func (c *codegen) compileLet() {
	c.expect("let")
	pos := c.tok().Pos
	sym := c.resolve(c.identifier(), pos)
	array := false
	if c.tok().Is("[") {
		array = true
		c.next()
		c.compileExpression()
		c.expect("]")
		c.push(sym)
		c.w.WriteArithmetic(code.Add)
	}
	c.expect("=")
	c.compileExpression()
	c.expect(";")
	if array {
		c.w.WritePop(code.Temp, 0)
		c.w.WritePop(code.Pointer, 1)
		c.w.WritePush(code.Temp, 0)
		c.w.WritePop(code.That, 0)
		return
	}
	c.pop(sym)
}

// ifStatement: 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?
func (c *codegen) compileIf() {
	n := c.ifCount
	c.ifCount++
	ifTrue := fmt.Sprintf("%s%d", ifTrueLabel, n)
	ifFalse := fmt.Sprintf("%s%d", ifFalseLabel, n)
	c.expect("if")
	c.expect("(")
	c.compileExpression()
	c.expect(")")
	c.w.WriteIf(ifTrue)
	c.w.WriteGoto(ifFalse)
	c.w.WriteLabel(ifTrue)
	c.expect("{")
	c.compileStatements()
	c.expect("}")
	if c.tok().Keyword() != parser.Else {
		c.w.WriteLabel(ifFalse)
		return
	}
	ifEnd := fmt.Sprintf("%s%d", ifEndLabel, n)
	c.w.WriteGoto(ifEnd)
	c.next()
	c.w.WriteLabel(ifFalse)
	c.expect("{")
	c.compileStatements()
	c.expect("}")
	c.w.WriteLabel(ifEnd)
}

// whileStatement: 'while' '(' expression ')' '{' statements '}'
func (c *codegen) compileWhile() {
	n := c.whileCount
	c.whileCount++
	exp := fmt.Sprintf("%s%d", whileExpLabel, n)
	end := fmt.Sprintf("%s%d", whileEndLabel, n)
	c.expect("while")
	c.w.WriteLabel(exp)
	c.expect("(")
	c.compileExpression()
	c.expect(")")
	c.w.WriteArithmetic(code.Not)
	c.w.WriteIf(end)
	c.expect("{")
	c.compileStatements()
	c.expect("}")
	c.w.WriteGoto(exp)
	c.w.WriteLabel(end)
}

// doStatement: 'do' subroutineCall ';'
func (c *codegen) compileDo() {
	c.expect("do")
	c.compileCall(c.identifier())
	c.expect(";")
	c.w.WritePop(code.Temp, 0)
}

// returnStatement: 'return' expression? ';'
func (c *codegen) compileReturn() {
	c.expect("return")
	if c.tok().Is(";") {
		c.w.WritePush(code.Constant, 0)
	} else {
		c.compileExpression()
	}
	c.expect(";")
	c.w.WriteReturn()
}

// subroutineCall: subroutineName '(' expressionList ')' |
// (className | varName) '.' subroutineName '(' expressionList ')'
//
// The name has already been consumed.
func (c *codegen) compileCall(name string) {
	nArgs := 0
	var callee string
	switch tok := c.tok(); {
	case tok.Is("."):
		c.next()
		sub := c.identifier()
		if sym := c.st.Lookup(name); sym != nil {
			// A method call on an object held in a variable.
			c.push(sym)
			nArgs++
			callee = sym.Type + "." + sub
		} else {
			callee = name + "." + sub
		}
	case tok.Is("("):
		// A method call on the current object.
		c.w.WritePush(code.Pointer, 0)
		nArgs++
		callee = c.className + "." + name
	default:
		c.errorf(tok.Pos, errors.Syntax, "expected \"(\" or \".\" after %s, got %s", name, describe(tok))
	}
	c.expect("(")
	nArgs += c.compileExpressionList()
	c.expect(")")
	c.w.WriteCall(callee, nArgs)
}

// expression: term (op term)*
//
// There is no operator precedence: operators apply strictly left to right.
func (c *codegen) compileExpression() {
	c.compileTerm()
	for {
		tok := c.tok()
		if tok.Kind != parser.SYMBOL {
			return
		}
		op, ok := binaryOps[tok.Spelling]
		if !ok {
			return
		}
		c.next()
		c.compileTerm()
		switch tok.Spelling {
		case "*":
			c.w.WriteCall(multiplyFunc, 2)
		case "/":
			c.w.WriteCall(divideFunc, 2)
		default:
			c.w.WriteArithmetic(op)
		}
	}
}

// term: integerConstant | stringConstant | keywordConstant | varName |
// varName '[' expression ']' | subroutineCall | '(' expression ')' | unaryOp expression
//
// A unary operator applies to the whole expression that follows it, so
// ~x & y is ~(x & y).
func (c *codegen) compileTerm() {
	tok := c.tok()
	switch tok.Kind {
	case parser.INT_CONST:
		n, err := c.t.IntVal()
		if err != nil {
			c.fail(err)
		}
		c.w.WritePush(code.Constant, n)
		c.next()
	case parser.STRING_CONST:
		s, err := c.t.StringVal()
		if err != nil {
			c.fail(err)
		}
		c.compileString(s)
		c.next()
	case parser.KEYWORD:
		switch tok.Keyword() {
		case parser.True:
			c.w.WritePush(code.Constant, 0)
			c.w.WriteArithmetic(code.Not)
		case parser.False, parser.Null:
			c.w.WritePush(code.Constant, 0)
		case parser.This:
			c.w.WritePush(code.Pointer, 0)
		default:
			c.errorf(tok.Pos, errors.Syntax, "expected term, got %s", describe(tok))
		}
		c.next()
	case parser.SYMBOL:
		if tok.Is("(") {
			c.next()
			c.compileExpression()
			c.expect(")")
			return
		}
		op, ok := unaryOps[tok.Spelling]
		if !ok {
			c.errorf(tok.Pos, errors.Syntax, "expected term, got %s", describe(tok))
		}
		c.next()
		c.compileExpression()
		c.w.WriteArithmetic(op)
	case parser.IDENTIFIER:
		name := c.identifier()
		switch next := c.tok(); {
		case next.Is("["):
			sym := c.resolve(name, tok.Pos)
			c.next()
			c.compileExpression()
			c.expect("]")
			c.push(sym)
			c.w.WriteArithmetic(code.Add)
			c.w.WritePop(code.Pointer, 1)
			c.w.WritePush(code.That, 0)
		case next.Is("("), next.Is("."):
			c.compileCall(name)
		default:
			c.push(c.resolve(name, tok.Pos))
		}
	default:
		c.errorf(tok.Pos, errors.Syntax, "expected term, got %s", describe(tok))
	}
}

// compileString builds a String object holding s, one character at a time.
func (c *codegen) compileString(s string) {
	rs := []rune(s)
	c.w.WritePush(code.Constant, len(rs))
	c.w.WriteCall(stringNewFunc, 1)
	for _, r := range rs {
		c.w.WritePush(code.Constant, int(r))
		c.w.WriteCall(appendCharFunc, 2)
	}
}

// expressionList: (expression (',' expression)*)?
func (c *codegen) compileExpressionList() int {
	if c.tok().Is(")") {
		return 0
	}
	c.compileExpression()
	n := 1
	for c.tok().Is(",") {
		c.next()
		c.compileExpression()
		n++
	}
	return n
}
