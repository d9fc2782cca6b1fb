// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package code_test

import (
	"bytes"
	"testing"

	"github.com/hackvm/jackc/internal/compiler/code"
	"github.com/hackvm/jackc/internal/testutil"
	"github.com/pkg/errors"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := code.NewWriter(&buf)
	w.WriteFunction("Main.main", 1)
	w.WritePush(code.Constant, 0)
	w.WriteArithmetic(code.Not)
	w.WriteIf("IF_TRUE0")
	w.WriteGoto("IF_FALSE0")
	w.WriteLabel("IF_TRUE0")
	w.WritePop(code.Var, 0)
	w.WriteCall("Output.printInt", 1)
	w.WriteReturn()
	testutil.FatalIfErr(t, w.Flush())

	expected := `function Main.main 1
push constant 0
not
if-goto IF_TRUE0
goto IF_FALSE0
label IF_TRUE0
pop local 0
call Output.printInt 1
return
`
	testutil.ExpectNoDiff(t, expected, buf.String())
	if w.Count() != 9 {
		t.Errorf("Count: want 9, got %d", w.Count())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterKeepsFirstError(t *testing.T) {
	w := code.NewWriter(failingWriter{})
	for i := 0; i < 10000; i++ {
		w.WritePush(code.Constant, i)
	}
	if err := w.Flush(); err == nil {
		t.Error("expected write error")
	}
}

func TestWriteArithmeticRejectsOtherOpcodes(t *testing.T) {
	var buf bytes.Buffer
	w := code.NewWriter(&buf)
	w.WriteArithmetic(code.Add)
	w.WriteArithmetic(code.Bad)
	w.WriteArithmetic(code.Return)
	w.WriteArithmetic(code.Sub)
	if err := w.Flush(); err == nil {
		t.Error("expected an error for a non-arithmetic opcode")
	}
	testutil.ExpectNoDiff(t, "", buf.String())
	if w.Count() != 1 {
		t.Errorf("Count: want 1, got %d", w.Count())
	}
}
