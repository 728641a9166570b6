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

import "github.com/pkg/errors"

// DefaultDepthLimit is the reduction depth at which Reduce gives up.
const DefaultDepthLimit = 10000

// Reducer reduces expressions in normal order. The zero value uses
// DefaultDepthLimit.
type Reducer struct {
	DepthLimit int
}

// Reduce reduces expr with the default depth limit.
func Reduce(expr Expression, observer Observer) (Expression, error) {
	return Reducer{}.Reduce(expr, observer)
}

type frameState int

const (
	enterFrame      frameState = iota // not visited yet
	functionReduced                   // function position is in the return register
	argumentReduced                   // function was stuck, argument is in the return register
)

type frame struct {
	expr     Expression
	depth    int
	state    frameState
	function Expression // reduced function of a stuck application
}

// Reduce drives expr to normal form, leftmost-outermost first:
//
//   - anything but an application is returned as is
//   - for (f a), f is reduced first; if it becomes λp.body, the beta step
//     substitutes the unreduced a and the result is reduced further
//   - otherwise the argument is reduced too and the application rebuilt
//
// Every descent and every chained beta step adds one to the depth. Going
// beyond DepthLimit fails with ErrRecursionLimitExceeded. The recursion is
// run on an explicit stack, so deep reductions do not grow the goroutine stack.
func (r Reducer) Reduce(expr Expression, observer Observer) (Expression, error) {
	limit := r.DepthLimit
	if limit <= 0 {
		limit = DefaultDepthLimit
	}
	if observer == nil {
		observer = EmptyObserver
	}

	stack := []frame{{expr: expr}}
	var ret Expression // return register of the emulated recursion
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		switch top.state {
		case enterFrame:
			if top.depth > limit {
				return nil, errors.Wrapf(ErrRecursionLimitExceeded, "limit %d", limit)
			}
			if err := observer.StartedReduction(top.depth, top.expr); err != nil {
				return nil, err
			}
			app, ok := top.expr.(Application)
			if !ok {
				ret = top.expr
				stack = stack[:len(stack)-1]
				continue
			}
			top.state = functionReduced
			stack = append(stack, frame{expr: app.Function, depth: top.depth + 1})
		case functionReduced:
			app := top.expr.(Application)
			if fn, ok := ret.(Function); ok {
				result := Replace(fn.Body, fn.Parameter, app.Argument)
				if err := observer.Reduced(top.depth, fn, app.Argument, result); err != nil {
					return nil, err
				}
				// tail call: this frame continues with the result one level deeper
				*top = frame{expr: result, depth: top.depth + 1}
				continue
			}
			top.function = ret
			top.state = argumentReduced
			stack = append(stack, frame{expr: app.Argument, depth: top.depth + 1})
		case argumentReduced:
			ret = Application{top.function, ret}
			stack = stack[:len(stack)-1]
		}
	}
	return ret, nil
}
