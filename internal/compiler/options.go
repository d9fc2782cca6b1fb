// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package compiler

import (
	"github.com/pkg/errors"
)

// Option configures a new Compiler.
type Option func(*Compiler) error

// DumpTokens instructs the Compiler to log the token stream of each class, in XML form.
func DumpTokens() Option {
	return func(c *Compiler) error {
		c.dumpTokens = true
		return nil
	}
}

// DumpVM instructs the Compiler to log the VM code generated for each class.
func DumpVM() Option {
	return func(c *Compiler) error {
		c.dumpVM = true
		return nil
	}
}

// MaxIntLiteral sets the largest integer constant the Compiler accepts.
func MaxIntLiteral(n int) Option {
	return func(c *Compiler) error {
		if n < 0 {
			return errors.Errorf("invalid maximum integer literal %d", n)
		}
		c.maxIntLiteral = n
		return nil
	}
}
