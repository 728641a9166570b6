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

package lambda

import (
	"strconv"

	"github.com/launix-de/lambda/reader"
	"github.com/pkg/errors"
)

type builder struct {
	defs  *Definitions
	bound []string // parameters in scope, innermost last
	// called after each committed definition
	defined func(name string, value Expression, replaced bool)
}

// Build walks a parsed compilation unit. Each definition is stored in defs
// as soon as it is complete; the trailing expression, if any, is returned
// unreduced. A unit without trailing expression returns nil.
//
// A curried definition "def f x y = body" is stored as λx.λy.body.
// Names resolve to the nearest enclosing parameter, else to the current
// value in defs, else fail with ErrUnresolvedName. Decimal literals are never
// looked up, they become Numeral trees.
func Build(file *reader.File, defs *Definitions) (Expression, error) {
	b := &builder{defs: defs}
	return b.file(file)
}

func (b *builder) file(file *reader.File) (Expression, error) {
	for _, def := range file.Definitions {
		if err := b.definition(def); err != nil {
			return nil, err
		}
	}
	if file.Expression == nil {
		return nil, nil
	}
	return b.expression(file.Expression)
}

func (b *builder) definition(def *reader.Definition) error {
	b.bound = append(b.bound, def.Parameters...)
	body, err := b.expression(def.Body)
	b.bound = b.bound[:len(b.bound)-len(def.Parameters)]
	if err != nil {
		return err
	}
	for i := len(def.Parameters) - 1; i >= 0; i-- {
		body = Function{def.Parameters[i], body}
	}
	replaced := b.defs.Define(def.Name, body)
	if b.defined != nil {
		b.defined(def.Name, body, replaced)
	}
	return nil
}

func (b *builder) expression(node reader.Node) (Expression, error) {
	switch n := node.(type) {
	case *reader.NameNode:
		return b.name(n)
	case *reader.FunctionNode:
		b.bound = append(b.bound, n.Parameter)
		body, err := b.expression(n.Body)
		b.bound = b.bound[:len(b.bound)-1]
		if err != nil {
			return nil, err
		}
		return Function{n.Parameter, body}, nil
	case *reader.ApplicationNode:
		result, err := b.expression(n.Items[0])
		if err != nil {
			return nil, err
		}
		for _, item := range n.Items[1:] {
			argument, err := b.expression(item)
			if err != nil {
				return nil, err
			}
			result = Application{result, argument}
		}
		return result, nil
	}
	return nil, errors.Errorf("%s: unknown parse tree node %T", node.Position(), node)
}

func (b *builder) name(n *reader.NameNode) (Expression, error) {
	if reader.IsNumeral(n.Name) {
		value, err := strconv.Atoi(n.Name)
		if err != nil || value > MaxNumeral {
			return nil, errors.Wrapf(ErrSyntax, "%s: numeral %s is out of range 0..%d", n.Pos, n.Name, MaxNumeral)
		}
		return Numeral(value), nil
	}
	for i := len(b.bound) - 1; i >= 0; i-- {
		if b.bound[i] == n.Name {
			return Name{n.Name}, nil
		}
	}
	if value, ok := b.defs.Lookup(n.Name); ok {
		return value, nil
	}
	return nil, errors.Wrapf(ErrUnresolvedName, "%s: %s", n.Pos, n.Name)
}
