// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package code contains the instructions of the stack-based virtual machine
// that compiled Jack programs target, and a writer for their text form.
package code

type Opcode int

const (
	Bad        Opcode = iota // Invalid instruction, indicates a bug in the generator.
	Push                     // Push segment[index] onto the stack.
	Pop                      // Pop the stack into segment[index].
	Add                      // Integer addition of the two top values.
	Sub                      // Subtract the top value from the second top value.
	Neg                      // Arithmetic negation of the top value.
	Eq                       // Equality of the two top values, as true (-1) or false (0).
	Gt                       // Second top greater than top.
	Lt                       // Second top less than top.
	And                      // Bitwise AND of the two top values.
	Or                       // Bitwise OR of the two top values.
	Not                      // Bitwise NOT of the top value.
	Shiftleft                // Shift the top value left one bit.
	Shiftright               // Shift the top value right one bit.
	Label                    // Declare a label in the current function.
	Goto                     // Unconditional jump to a label.
	IfGoto                   // Pop the stack and jump to a label if the value is not zero.
	Call                     // Call a function with a number of arguments already pushed.
	Function                 // Declare a function with a number of local variables.
	Return                   // Return the top of stack to the caller.

	lastOpcode
)

var opNames = map[Opcode]string{
	Push:       "push",
	Pop:        "pop",
	Add:        "add",
	Sub:        "sub",
	Neg:        "neg",
	Eq:         "eq",
	Gt:         "gt",
	Lt:         "lt",
	And:        "and",
	Or:         "or",
	Not:        "not",
	Shiftleft:  "shiftleft",
	Shiftright: "shiftright",
	Label:      "label",
	Goto:       "goto",
	IfGoto:     "if-goto",
	Call:       "call",
	Function:   "function",
	Return:     "return",
}

func (o Opcode) String() string {
	return opNames[o]
}

// IsArithmetic reports whether o is a stack arithmetic or logical command,
// taking no operands.
func (o Opcode) IsArithmetic() bool {
	return o >= Add && o <= Shiftright
}

// Segment names a virtual memory segment addressed by push and pop.
type Segment string

// Segments of the virtual machine.
const (
	Constant Segment = "constant"
	Argument Segment = "argument"
	Local    Segment = "local"
	Static   Segment = "static"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
)

// Storage kind spellings accepted in place of a segment, translated on emission.
const (
	Field Segment = "field"
	Var   Segment = "var"
	Arg   Segment = "arg"
)

// VM returns the virtual machine's name for segment s.
func (s Segment) VM() Segment {
	switch s {
	case Field:
		return This
	case Var:
		return Local
	case Arg:
		return Argument
	}
	return s
}
