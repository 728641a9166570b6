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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	identity  = NewFunction("x", NewName("x"))
	selfApply = NewFunction("s", NewApplication(NewName("s"), NewName("s")))
)

func TestReduceSelfApplyIdentity(t *testing.T) {
	result, err := Reduce(NewApplication(selfApply, identity), nil)
	require.NoError(t, err)
	assert.True(t, Equal(identity, result), "got %s", result)
}

func TestReduceNormalFormsAreStable(t *testing.T) {
	for _, e := range []Expression{
		NewName("x"),
		identity,
		selfApply,
		NewApplication(NewName("x"), NewName("y")),
		// bodies of functions are not reduced
		NewFunction("y", NewApplication(identity, NewName("y"))),
	} {
		var stats CountingObserver
		once, err := Reduce(e, &stats)
		require.NoError(t, err)
		assert.True(t, Equal(e, once), "%s reduced to %s", e, once)
		assert.Zero(t, stats.Steps, "%s", e)

		twice, err := Reduce(once, nil)
		require.NoError(t, err)
		assert.True(t, Equal(once, twice))
	}
}

func TestReduceArgumentOfStuckApplication(t *testing.T) {
	// (x (λx.x b)) cannot fire, so the argument is reduced on its own
	e := NewApplication(NewName("x"), NewApplication(identity, NewName("b")))
	result, err := Reduce(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "(x b)", result.String())
}

func TestReduceShadowing(t *testing.T) {
	// ((λx.λx.x a) b) is b: the inner x is not touched by the outer step
	e := NewApplication(NewApplication(NewFunction("x", NewFunction("x", NewName("x"))), NewName("a")), NewName("b"))
	result, err := Reduce(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", result.String())
}

func TestReduceSubstitutesUnreducedArgument(t *testing.T) {
	// normal order: the diverging argument is dropped, never reduced
	omega := NewApplication(selfApply, selfApply)
	e := NewApplication(NewFunction("y", NewName("z")), omega)
	result, err := Reduce(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "z", result.String())
}

func TestReduceDivergence(t *testing.T) {
	omega := NewApplication(selfApply, selfApply)

	var stats CountingObserver
	_, err := Reduce(omega, &stats)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecursionLimitExceeded))
	assert.Equal(t, DefaultDepthLimit, stats.MaxDepth)

	stats = CountingObserver{}
	_, err = Reducer{DepthLimit: 50}.Reduce(omega, &stats)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecursionLimitExceeded))
	assert.Contains(t, err.Error(), "limit 50")
	assert.Equal(t, 50, stats.MaxDepth)
}

func TestReduceDeepSpine(t *testing.T) {
	// ((((x a) a) a) ...) descends once per application
	var e Expression = NewName("x")
	for i := 0; i < 9000; i++ {
		e = NewApplication(e, NewName("a"))
	}
	result, err := Reduce(e, nil)
	require.NoError(t, err)
	assert.True(t, Equal(e, result))

	_, err = Reducer{DepthLimit: 100}.Reduce(e, nil)
	assert.True(t, errors.Is(err, ErrRecursionLimitExceeded))
}

type stopAfter struct {
	steps int
}

var errStop = errors.New("stop")

func (s *stopAfter) StartedReduction(int, Expression) error { return nil }

func (s *stopAfter) Reduced(int, Expression, Expression, Expression) error {
	s.steps--
	if s.steps < 0 {
		return errStop
	}
	return nil
}

func TestReduceObserverAborts(t *testing.T) {
	omega := NewApplication(selfApply, selfApply)
	_, err := Reduce(omega, &stopAfter{steps: 3})
	assert.Equal(t, errStop, err)
}
