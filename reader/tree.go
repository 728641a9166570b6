/*
Copyright (C) 2024  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package reader turns lambda source text into a parse tree.
//
// The grammar is
//
//	file       := definition* expression*
//	definition := "def" NAME NAME* "=" expression+      (ends at newline)
//	expression := NAME | BINDER NAME "." expression | "(" expression+ ")"
//
// where BINDER is a backslash or λ. A definition body may begin on the line
// after "=". The parse tree keeps source positions but
// does no name resolution; that is left to the consumer.
package reader

import "fmt"

// Pos is a position inside a named source.
type Pos struct {
	Source string
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
}

// Node is one of *NameNode, *FunctionNode, *ApplicationNode.
type Node interface {
	Position() Pos
	node()
}

// NameNode is a bare identifier or decimal literal.
type NameNode struct {
	Pos  Pos
	Name string
}

// FunctionNode is an abstraction \Parameter.Body.
type FunctionNode struct {
	Pos       Pos
	Parameter string
	Body      Node
}

// ApplicationNode holds two or more juxtaposed expressions. Items apply left
// to right: a b c means ((a b) c).
type ApplicationNode struct {
	Pos   Pos
	Items []Node
}

func (n *NameNode) Position() Pos        { return n.Pos }
func (n *FunctionNode) Position() Pos    { return n.Pos }
func (n *ApplicationNode) Position() Pos { return n.Pos }

func (*NameNode) node()        {}
func (*FunctionNode) node()    {}
func (*ApplicationNode) node() {}

// Definition is one "def NAME params... = body" clause.
type Definition struct {
	Pos        Pos
	Name       string
	Parameters []string
	Body       Node
}

// File is one compilation unit. Expression is nil for a definitions-only unit.
type File struct {
	Definitions []*Definition
	Expression  Node
}
