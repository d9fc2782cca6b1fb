// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package code

import (
	"bufio"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Writer writes VM instructions as text, one per line.  It holds no state
// besides its output; the first write error is kept and reported by Flush.
// No range checking is done on operands.
type Writer struct {
	w   *bufio.Writer
	n   int
	err error
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Emit writes one instruction.
func (w *Writer) Emit(i Instr) {
	if w.err != nil {
		return
	}
	glog.V(2).Infof("emitting `%s'", i)
	if _, err := w.w.WriteString(i.String() + "\n"); err != nil {
		w.err = err
		return
	}
	w.n++
}

// WritePush writes a push of segment[index].
func (w *Writer) WritePush(segment Segment, index int) {
	w.Emit(Instr{Opcode: Push, Segment: segment, N: index})
}

// WritePop writes a pop into segment[index].
func (w *Writer) WritePop(segment Segment, index int) {
	w.Emit(Instr{Opcode: Pop, Segment: segment, N: index})
}

// WriteArithmetic writes an arithmetic or logical command.  Any other
// opcode is an error, reported by Flush.
func (w *Writer) WriteArithmetic(op Opcode) {
	if !op.IsArithmetic() {
		if w.err == nil {
			w.err = errors.Errorf("opcode %d is not an arithmetic command", int(op))
		}
		return
	}
	w.Emit(Instr{Opcode: op})
}

// WriteLabel writes a label declaration.
func (w *Writer) WriteLabel(label string) {
	w.Emit(Instr{Opcode: Label, Name: label})
}

// WriteGoto writes an unconditional jump.
func (w *Writer) WriteGoto(label string) {
	w.Emit(Instr{Opcode: Goto, Name: label})
}

// WriteIf writes a conditional jump.
func (w *Writer) WriteIf(label string) {
	w.Emit(Instr{Opcode: IfGoto, Name: label})
}

// WriteCall writes a call of name with nArgs arguments.
func (w *Writer) WriteCall(name string, nArgs int) {
	w.Emit(Instr{Opcode: Call, Name: name, N: nArgs})
}

// WriteFunction writes a function header for name with nLocals local variables.
func (w *Writer) WriteFunction(name string, nLocals int) {
	w.Emit(Instr{Opcode: Function, Name: name, N: nLocals})
}

// WriteReturn writes a return.
func (w *Writer) WriteReturn() {
	w.Emit(Instr{Opcode: Return})
}

// Count returns the number of instructions written.
func (w *Writer) Count() int {
	return w.n
}

// Flush writes any buffered text to the underlying io.Writer, and returns
// the first error encountered.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
