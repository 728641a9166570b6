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

/*
 * An evaluator for the untyped lambda calculus.
 *
 * Expressions are immutable trees of three kinds: names, one-argument
 * functions and applications. They are reduced in normal order by plain
 * textual substitution (no alpha renaming).
 */
package lambda

import "strings"

// Expression is one of Name, Function or Application.
type Expression interface {
	String() string
	expression()
}

type Name struct {
	Identifier string
}

type Function struct {
	Parameter string
	Body      Expression
}

type Application struct {
	Function Expression
	Argument Expression
}

func (Name) expression()        {}
func (Function) expression()    {}
func (Application) expression() {}

func NewName(identifier string) Expression {
	return Name{identifier}
}

func NewFunction(parameter string, body Expression) Expression {
	return Function{parameter, body}
}

func NewApplication(function, argument Expression) Expression {
	return Application{function, argument}
}

func (n Name) String() string {
	return n.Identifier
}

func (f Function) String() string {
	var b strings.Builder
	write(&b, f)
	return b.String()
}

func (a Application) String() string {
	var b strings.Builder
	write(&b, a)
	return b.String()
}

func write(b *strings.Builder, e Expression) {
	switch e := e.(type) {
	case Name:
		b.WriteString(e.Identifier)
	case Function:
		b.WriteString("λ")
		b.WriteString(e.Parameter)
		b.WriteByte('.')
		write(b, e.Body)
	case Application:
		b.WriteByte('(')
		write(b, e.Function)
		b.WriteByte(' ')
		write(b, e.Argument)
		b.WriteByte(')')
	}
}

// Replace substitutes replacement for every free occurrence of variable in
// target. A Function binding variable stops the substitution. Bound
// parameters are never renamed, so free names of replacement can be captured.
// Subtrees without an occurrence are returned as they are.
func Replace(target Expression, variable string, replacement Expression) Expression {
	result, _ := replace(target, variable, replacement)
	return result
}

func replace(target Expression, variable string, replacement Expression) (Expression, bool) {
	switch e := target.(type) {
	case Name:
		if e.Identifier == variable {
			return replacement, true
		}
		return e, false
	case Function:
		if e.Parameter == variable {
			return e, false
		}
		body, changed := replace(e.Body, variable, replacement)
		if !changed {
			return e, false
		}
		return Function{e.Parameter, body}, true
	case Application:
		function, changedFunction := replace(e.Function, variable, replacement)
		argument, changedArgument := replace(e.Argument, variable, replacement)
		if !changedFunction && !changedArgument {
			return e, false
		}
		return Application{function, argument}, true
	}
	panic("unknown expression type")
}

// Equal compares two expressions structurally. Parameter names count, so
// λx.x and λy.y differ.
func Equal(a, b Expression) bool {
	switch a := a.(type) {
	case Name:
		b, ok := b.(Name)
		return ok && a.Identifier == b.Identifier
	case Function:
		b, ok := b.(Function)
		return ok && a.Parameter == b.Parameter && Equal(a.Body, b.Body)
	case Application:
		b, ok := b.(Application)
		return ok && Equal(a.Function, b.Function) && Equal(a.Argument, b.Argument)
	}
	return a == nil && b == nil
}

// Size counts the nodes of an expression.
func Size(e Expression) int {
	switch e := e.(type) {
	case Function:
		return 1 + Size(e.Body)
	case Application:
		return 1 + Size(e.Function) + Size(e.Argument)
	}
	return 1
}
