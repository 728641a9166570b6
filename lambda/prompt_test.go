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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplSession(t *testing.T) {
	var out bytes.Buffer
	s := &replSession{evaluator: newEvaluator(t), out: &out}
	feed := func(line string) (string, bool, bool) {
		out.Reset()
		more, quit := s.feed(line)
		return out.String(), more, quit
	}

	text, more, quit := feed("def x = identity")
	assert.Empty(t, text)
	assert.False(t, more)
	assert.False(t, quit)

	text, _, _ = feed("x x")
	assert.Equal(t, resultprompt+"λx.x\n", text)

	text, more, _ = feed("   ")
	assert.Empty(t, text)
	assert.False(t, more)

	// unbalanced parentheses continue on the next line
	text, more, _ = feed("(x")
	assert.Empty(t, text)
	assert.True(t, more)
	text, more, _ = feed("  x)")
	assert.False(t, more)
	assert.Equal(t, resultprompt+"λx.x\n", text)

	text, _, _ = feed("a )")
	assert.Equal(t, "error: user prompt:1:3: unexpected \")\" after expression\n", text)

	text, _, _ = feed("nope")
	assert.Equal(t, "error: user prompt:1:1: nope: unresolved name\n", text)
}

func TestReplCommands(t *testing.T) {
	var out bytes.Buffer
	s := &replSession{evaluator: newEvaluator(t), out: &out}
	run := func(line string) string {
		out.Reset()
		_, quit := s.feed(line)
		assert.False(t, quit, line)
		return out.String()
	}

	assert.Contains(t, run(":help"), ":show NAME")
	assert.Contains(t, run(":defs"), "select_first")
	assert.Equal(t, "true = λfst.λsnd.fst\n", run(":show true"))
	assert.Equal(t, "error: nope: unresolved name\n", run(":show nope"))
	assert.Equal(t, "usage: :show NAME\n", run(":show"))
	assert.Equal(t, "unknown command :nope, try :help\n", run(":nope"))

	assert.Equal(t, "trace is on\n", run(":trace on"))
	traced := run("identity identity")
	assert.Contains(t, traced, "(depth=0, step=0) reduced (λx.x λx.x) => λx.x")
	assert.Contains(t, traced, resultprompt+"λx.x")
	assert.Equal(t, "trace is off\n", run(":trace off"))
	assert.Equal(t, resultprompt+"λx.x\n", run("identity identity"))

	_, quit := s.feed(":quit")
	assert.True(t, quit)
}
