// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package codegen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hackvm/jackc/internal/compiler/code"
	"github.com/hackvm/jackc/internal/compiler/codegen"
	"github.com/hackvm/jackc/internal/compiler/errors"
	"github.com/hackvm/jackc/internal/compiler/parser"
	"github.com/hackvm/jackc/internal/testutil"
)

func compile(tb testing.TB, src string) ([]string, error) {
	tb.Helper()
	var buf bytes.Buffer
	w := code.NewWriter(&buf)
	err := codegen.CodeGen(parser.NewTokenizer("Main.jack", strings.NewReader(src)), w)
	testutil.FatalIfErr(tb, w.Flush())
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil, err
	}
	return strings.Split(out, "\n"), err
}

var codegenTests = []struct {
	name string
	src  string
	want []string
}{
	{
		"empty return",
		`class Main { function void main() { return; } }`,
		[]string{
			"function Main.main 0",
			"push constant 0",
			"return",
		},
	},
	{
		"if else",
		`class Main {
  function void main() {
    var int x;
    if (true) { let x = 1; } else { let x = 2; }
    return;
  }
}`,
		[]string{
			"function Main.main 1",
			"push constant 0",
			"not",
			"if-goto IF_TRUE0",
			"goto IF_FALSE0",
			"label IF_TRUE0",
			"push constant 1",
			"pop local 0",
			"goto IF_END0",
			"label IF_FALSE0",
			"push constant 2",
			"pop local 0",
			"label IF_END0",
			"push constant 0",
			"return",
		},
	},
	{
		"if without else",
		`class Main { function void main() { var boolean b; if (b) { let b = false; } return; } }`,
		[]string{
			"function Main.main 1",
			"push local 0",
			"if-goto IF_TRUE0",
			"goto IF_FALSE0",
			"label IF_TRUE0",
			"push constant 0",
			"pop local 0",
			"label IF_FALSE0",
			"push constant 0",
			"return",
		},
	},
	{
		"constructor",
		`class Point {
  field int x, y;
  constructor Point new(int ax, int ay) {
    let x = ax;
    let y = ay;
    return this;
  }
}`,
		[]string{
			"function Point.new 0",
			"push constant 2",
			"call Memory.alloc 1",
			"pop pointer 0",
			"push argument 0",
			"pop this 0",
			"push argument 1",
			"pop this 1",
			"push pointer 0",
			"return",
		},
	},
	{
		"method",
		`class Point {
  field int x;
  method int scaled(int scale) { return x * scale; }
}`,
		[]string{
			"function Point.scaled 0",
			"push argument 0",
			"pop pointer 0",
			"push this 0",
			"push argument 1",
			"call Math.multiply 2",
			"return",
		},
	},
	{
		"while",
		`class Main {
  function void count() {
    var int i;
    while (i < 10) { let i = i + 1; }
    return;
  }
}`,
		[]string{
			"function Main.count 1",
			"label WHILE_EXP0",
			"push local 0",
			"push constant 10",
			"lt",
			"not",
			"if-goto WHILE_END0",
			"push local 0",
			"push constant 1",
			"add",
			"pop local 0",
			"goto WHILE_EXP0",
			"label WHILE_END0",
			"push constant 0",
			"return",
		},
	},
	{
		"array store and load",
		`class Main { function void f(Array a) { let a[1] = a[2]; return; } }`,
		[]string{
			"function Main.f 0",
			"push constant 1",
			"push argument 0",
			"add",
			"push constant 2",
			"push argument 0",
			"add",
			"pop pointer 1",
			"push that 0",
			"pop temp 0",
			"pop pointer 1",
			"push temp 0",
			"pop that 0",
			"push constant 0",
			"return",
		},
	},
	{
		"string constant",
		`class Main { function void main() { do Output.printString("Hi"); return; } }`,
		[]string{
			"function Main.main 0",
			"push constant 2",
			"call String.new 1",
			"push constant 72",
			"call String.appendChar 2",
			"push constant 105",
			"call String.appendChar 2",
			"call Output.printString 1",
			"pop temp 0",
			"push constant 0",
			"return",
		},
	},
	{
		"subroutine calls",
		`class Main {
  static Game g;
  function void f() {
    var Ball b;
    do b.move(1);
    do g.run();
    do draw();
    do Main.helper(1, 2);
    return;
  }
}`,
		[]string{
			"function Main.f 1",
			"push local 0",
			"push constant 1",
			"call Ball.move 2",
			"pop temp 0",
			"push static 0",
			"call Game.run 1",
			"pop temp 0",
			"push pointer 0",
			"call Main.draw 1",
			"pop temp 0",
			"push constant 1",
			"push constant 2",
			"call Main.helper 2",
			"pop temp 0",
			"push constant 0",
			"return",
		},
	},
	{
		"call in expression",
		`class Main { function int f() { return Math.max(1, g()); } }`,
		[]string{
			"function Main.f 0",
			"push constant 1",
			"push pointer 0",
			"call Main.g 1",
			"call Math.max 2",
			"return",
		},
	},
	{
		"left to right without precedence",
		`class Main { function int f() { return 1 + 2 * 3; } }`,
		[]string{
			"function Main.f 0",
			"push constant 1",
			"push constant 2",
			"add",
			"push constant 3",
			"call Math.multiply 2",
			"return",
		},
	},
	{
		"parentheses group",
		`class Main { function int f() { return 8 / (2 - 1); } }`,
		[]string{
			"function Main.f 0",
			"push constant 8",
			"push constant 2",
			"push constant 1",
			"sub",
			"call Math.divide 2",
			"return",
		},
	},
	{
		"unary operators apply to the rest of the expression",
		`class Main {
  function int f(int x) {
    let x = -x + 1;
    let x = ^x;
    let x = #x;
    return ~true;
  }
}`,
		[]string{
			"function Main.f 0",
			"push argument 0",
			"push constant 1",
			"add",
			"neg",
			"pop argument 0",
			"push argument 0",
			"shiftleft",
			"pop argument 0",
			"push argument 0",
			"shiftright",
			"pop argument 0",
			"push constant 0",
			"not",
			"not",
			"return",
		},
	},
	{
		"unary operator after a binary operator",
		`class Main { function boolean f(boolean x, boolean y) { return x | ~x & y; } }`,
		[]string{
			"function Main.f 0",
			"push argument 0",
			"push argument 0",
			"push argument 1",
			"and",
			"not",
			"or",
			"return",
		},
	},
	{
		"unary complement of a conjunction",
		`class Main { function boolean f(boolean x, boolean y) { return ~x & y; } }`,
		[]string{
			"function Main.f 0",
			"push argument 0",
			"push argument 1",
			"and",
			"not",
			"return",
		},
	},
	{
		"keyword constants",
		`class Main { field int f; method Main m() { let f = null; let f = (false = (f > 0)) | (f & 1); return this; } }`,
		[]string{
			"function Main.m 0",
			"push argument 0",
			"pop pointer 0",
			"push constant 0",
			"pop this 0",
			"push constant 0",
			"push this 0",
			"push constant 0",
			"gt",
			"eq",
			"push this 0",
			"push constant 1",
			"and",
			"or",
			"pop this 0",
			"push pointer 0",
			"return",
		},
	},
	{
		"label counters are per subroutine and per statement kind",
		`class Main {
  function void a() {
    while (true) { if (false) { } }
    if (true) { }
    return;
  }
  function void b() {
    if (true) { }
    return;
  }
}`,
		[]string{
			"function Main.a 0",
			"label WHILE_EXP0",
			"push constant 0",
			"not",
			"not",
			"if-goto WHILE_END0",
			"push constant 0",
			"if-goto IF_TRUE0",
			"goto IF_FALSE0",
			"label IF_TRUE0",
			"label IF_FALSE0",
			"goto WHILE_EXP0",
			"label WHILE_END0",
			"push constant 0",
			"not",
			"if-goto IF_TRUE1",
			"goto IF_FALSE1",
			"label IF_TRUE1",
			"label IF_FALSE1",
			"push constant 0",
			"return",
			"function Main.b 0",
			"push constant 0",
			"not",
			"if-goto IF_TRUE0",
			"goto IF_FALSE0",
			"label IF_TRUE0",
			"label IF_FALSE0",
			"push constant 0",
			"return",
		},
	},
	{
		"statics shared and locals reset across subroutines",
		`class Main {
  static int count;
  function void a() { var int x, y; let count = y; return; }
  function void b() { var char c; let c = count; return; }
}`,
		[]string{
			"function Main.a 2",
			"push local 1",
			"pop static 0",
			"push constant 0",
			"return",
			"function Main.b 1",
			"push static 0",
			"pop local 0",
			"push constant 0",
			"return",
		},
	},
}

func TestCodeGen(t *testing.T) {
	for _, tc := range codegenTests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := compile(t, tc.src)
			testutil.FatalIfErr(t, err)
			testutil.ExpectNoDiff(t, tc.want, got)
		})
	}
}

var codegenErrorTests = []struct {
	name string
	src  string
	kind errors.Kind
	msg  string
}{
	{
		"missing semicolon",
		"class Main {\n  function int main() {\n    return 1\n  }\n}\n",
		errors.Syntax,
		`Main.jack:4:3: syntax error: expected ";", got symbol "}"`,
	},
	{
		"return at end of block",
		"class Main {\n  function void main() {\n    return\n  }\n}\n",
		errors.Syntax,
		`Main.jack:4:3: syntax error: expected term, got symbol "}"`,
	},
	{
		"not a class",
		"function void main() {}",
		errors.Syntax,
		`Main.jack:1:1-8: syntax error: expected "class", got keyword "function"`,
	},
	{
		"unexpected end of input",
		"class Main {",
		errors.Syntax,
		`Main.jack:1:13: syntax error: expected "}", got end of input`,
	},
	{
		"trailing input",
		"class Main { } class Other { }",
		errors.Syntax,
		`Main.jack:1:16-20: syntax error: expected end of input after class Main, got keyword "class"`,
	},
	{
		"field after subroutine",
		"class Main { function void f() { return; } field int x; }",
		errors.Syntax,
		`Main.jack:1:44-48: syntax error: expected "}", got keyword "field"`,
	},
	{
		"bad type",
		"class Main { field void x; }",
		errors.Syntax,
		`Main.jack:1:20-23: syntax error: expected type, got keyword "void"`,
	},
	{
		"call without arguments",
		"class Main { function void f() { do g; return; } }",
		errors.Syntax,
		`Main.jack:1:38: syntax error: expected "(" or "." after g, got symbol ";"`,
	},
	{
		"missing term",
		"class Main { function int f() { return 1 + ; } }",
		errors.Syntax,
		`Main.jack:1:44: syntax error: expected term, got symbol ";"`,
	},
	{
		"let of unknown variable",
		"class Main { function void f() { let y = 1; return; } }",
		errors.Resolution,
		`Main.jack:1:38: resolution error: unknown variable "y"`,
	},
	{
		"read of unknown variable",
		"class Main { function int f() { return y; } }",
		errors.Resolution,
		`Main.jack:1:40: resolution error: unknown variable "y"`,
	},
	{
		"local out of scope",
		"class Main { function void a() { var int x; return; } function int b() { return x; } }",
		errors.Resolution,
		`Main.jack:1:81: resolution error: unknown variable "x"`,
	},
	{
		"duplicate local",
		"class Main { function void f() { var int x, x; return; } }",
		errors.Definition,
		`Main.jack:1:45: definition error: "x" already defined as local int: name already defined in this scope`,
	},
	{
		"integer out of range",
		"class Main { function int f() { return 32768; } }",
		errors.Lexical,
		`Main.jack:1:40-44: lexical error: Integer constant 32768 out of range 0..32767`,
	},
}

func TestCodeGenErrors(t *testing.T) {
	for _, tc := range codegenErrorTests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := compile(t, tc.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.HasKind(err, tc.kind) {
				t.Errorf("error kinds %v, want %v", err.(errors.ErrorList).Kinds(), tc.kind)
			}
			testutil.ExpectNoDiff(t, tc.msg, err.Error())
		})
	}
}
