// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package code

import "fmt"

// Instr is a single virtual machine instruction.
type Instr struct {
	Opcode  Opcode
	Segment Segment // push and pop
	Name    string  // label, goto, if-goto, call and function
	N       int     // segment index, call argument count, or function local count
}

// String returns the instruction as one line of VM text, without the newline.
func (i Instr) String() string {
	switch i.Opcode {
	case Push, Pop:
		return fmt.Sprintf("%s %s %d", i.Opcode, i.Segment.VM(), i.N)
	case Label, Goto, IfGoto:
		return fmt.Sprintf("%s %s", i.Opcode, i.Name)
	case Call, Function:
		return fmt.Sprintf("%s %s %d", i.Opcode, i.Name, i.N)
	case Bad:
		return "bad"
	default:
		return i.Opcode.String()
	}
}
