// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package symbol implements the two-scope symbol table of a Jack class.
package symbol

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Kind enumerates the storage kinds of a Symbol.
type Kind int

const (
	None   Kind = iota // Unresolved: the name is in neither scope.
	Static             // Class scope, shared by all instances.
	Field              // Class scope, one per instance.
	Arg                // Subroutine scope, passed by the caller.
	Var                // Subroutine scope, local to the subroutine.

	endKind // for testing
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Arg:
		return "argument"
	case Var:
		return "local"
	default:
		return "none"
	}
}

// classScoped reports whether symbols of kind k live in the class scope.
func (k Kind) classScoped() bool {
	return k == Static || k == Field
}

var (
	// ErrUnresolved is returned when a name is in neither scope.
	ErrUnresolved = errors.New("unresolved name")
	// ErrRedefined is returned when a name is defined twice in one scope.
	ErrRedefined = errors.New("name already defined in this scope")
)

// Symbol describes a named storage location.
type Symbol struct {
	Name  string // identifier name
	Type  string // declared type: int, char, boolean, or a class name
	Kind  Kind   // storage kind
	Index int    // running index among symbols of the same kind in the same scope
}

// Scope maintains a record of the identifiers declared in one scope, with a
// running count per storage kind.
type Scope struct {
	Symbols map[string]*Symbol
	counts  map[Kind]int
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{make(map[string]*Symbol), make(map[Kind]int)}
}

// Insert attempts to insert a new symbol into the scope, assigning it the
// next index for its kind.  If the scope already contains a symbol alt with
// the same name, the scope is unchanged and the function returns alt.
// Otherwise the symbol is inserted, and returns nil.
func (s *Scope) Insert(sym *Symbol) (alt *Symbol) {
	if alt = s.Symbols[sym.Name]; alt == nil {
		sym.Index = s.counts[sym.Kind]
		s.counts[sym.Kind]++
		s.Symbols[sym.Name] = sym
	}
	return
}

// Count returns the number of symbols of kind k in the scope.
func (s *Scope) Count(k Kind) int {
	return s.counts[k]
}

// String prints the scope's symbols sorted by name.  This method is only used
// for debugging.
func (s *Scope) String() string {
	var buf bytes.Buffer
	names := make([]string, 0, len(s.Symbols))
	for name := range s.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(&buf, "scope {\n")
	for _, name := range names {
		sym := s.Symbols[name]
		fmt.Fprintf(&buf, "\t%q: %s %s %d\n", name, sym.Type, sym.Kind, sym.Index)
	}
	fmt.Fprintf(&buf, "}\n")
	return buf.String()
}

// Table associates names with the information needed to address them: type,
// kind and index.  It has two scopes: the class scope lives for the whole
// class, the subroutine scope is reset at the start of every subroutine and
// shadows the class scope.
type Table struct {
	class      *Scope
	subroutine *Scope
}

// NewTable creates a symbol table with both scopes empty.
func NewTable() *Table {
	return &Table{class: NewScope(), subroutine: NewScope()}
}

// StartSubroutine clears the subroutine scope and zeroes its counters.
func (t *Table) StartSubroutine() {
	t.subroutine = NewScope()
}

func (t *Table) scopeOf(k Kind) *Scope {
	if k.classScoped() {
		return t.class
	}
	return t.subroutine
}

// Define adds a name of the given type and kind to the scope implied by
// kind, with the next free index for that kind.
func (t *Table) Define(name, typ string, kind Kind) (*Symbol, error) {
	if kind <= None || kind >= endKind {
		return nil, errors.Errorf("cannot define %q with storage kind %d", name, int(kind))
	}
	sym := &Symbol{Name: name, Type: typ, Kind: kind}
	if alt := t.scopeOf(kind).Insert(sym); alt != nil {
		return nil, errors.Wrapf(ErrRedefined, "%q already defined as %s %s", name, alt.Kind, alt.Type)
	}
	return sym, nil
}

// VarCount returns the number of symbols of the given kind defined in the
// scope that owns that kind.
func (t *Table) VarCount(kind Kind) int {
	return t.scopeOf(kind).Count(kind)
}

// Lookup returns the symbol for name, searching the subroutine scope before
// the class scope, or nil if neither has it.
func (t *Table) Lookup(name string) *Symbol {
	if sym := t.subroutine.Symbols[name]; sym != nil {
		return sym
	}
	return t.class.Symbols[name]
}

// KindOf returns the storage kind of name, or None if name is unresolved.
func (t *Table) KindOf(name string) Kind {
	if sym := t.Lookup(name); sym != nil {
		return sym.Kind
	}
	return None
}

// TypeOf returns the declared type of name.
func (t *Table) TypeOf(name string) (string, error) {
	sym := t.Lookup(name)
	if sym == nil {
		return "", errors.Wrapf(ErrUnresolved, "%q", name)
	}
	return sym.Type, nil
}

// IndexOf returns the index assigned to name.
func (t *Table) IndexOf(name string) (int, error) {
	sym := t.Lookup(name)
	if sym == nil {
		return 0, errors.Wrapf(ErrUnresolved, "%q", name)
	}
	return sym.Index, nil
}

// String prints both scopes, the subroutine scope first.
func (t *Table) String() string {
	return t.subroutine.String() + t.class.String()
}
