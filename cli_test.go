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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/launix-de/lambda/lambda"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func execute(args ...string) (stdout, stderr string, err error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w, err := lambda.CreateSink(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, text)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestEval(t *testing.T) {
	out, _, err := execute("eval", "not true")
	require.NoError(t, err)
	assert.Equal(t, "λfst.λsnd.snd\n", out)

	out, _, err = execute("eval", "def twice f x = f (f x)", "twice not false")
	require.NoError(t, err)
	assert.Equal(t, "λfst.λsnd.snd\n", out)
}

func TestEvalErrors(t *testing.T) {
	_, _, err := execute("eval", "nope")
	assert.True(t, errors.Is(err, lambda.ErrUnresolvedName))
	assert.Equal(t, "argument 1:1:1: nope: unresolved name", err.Error())

	_, _, err = execute("--depth-limit", "20", "eval", "self_apply self_apply")
	assert.True(t, errors.Is(err, lambda.ErrRecursionLimitExceeded))
	assert.Contains(t, err.Error(), "limit 20")

	_, _, err = execute("eval")
	assert.Error(t, err)

	_, _, err = execute("serve", "--max-request-size", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--max-request-size")
}

func TestEvalPrint(t *testing.T) {
	out, stderr, err := execute("eval", "--print", "identity identity")
	require.NoError(t, err)
	assert.Equal(t, "λx.x\n", out)
	assert.Contains(t, stderr, "(depth=0, step=0) reduced (λx.x λx.x) => λx.x")
}

func TestRunFiles(t *testing.T) {
	defs := writeFile(t, "defs.lambda", "def t = true\n")
	prog := writeFile(t, "prog.lambda.xz", "# negate\nnot t\n")

	out, _, err := execute("run", defs, prog)
	require.NoError(t, err)
	assert.Equal(t, "λfst.λsnd.snd\n", out)

	_, _, err = execute("run", filepath.Join(t.TempDir(), "missing.lambda"))
	assert.True(t, os.IsNotExist(errors.Cause(err)), "%v", err)
}

func TestRunTrace(t *testing.T) {
	program := writeFile(t, "p.lambda", "pred 3\n")
	trace := filepath.Join(t.TempDir(), "trace.json.lz4")

	out, _, err := execute("run", "--trace", trace, "--trace-limit", "1kB", program)
	require.NoError(t, err)
	assert.Equal(t, "λs.((s λfst.λsnd.snd) λs.((s λfst.λsnd.snd) λx.x))\n", out)

	r, err := lambda.OpenSource(trace)
	require.NoError(t, err)
	defer r.Close()
	text, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 1000)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(text, &events))
	assert.NotEmpty(t, events)

	_, _, err = execute("run", "--trace", trace, "--trace-limit", "lots", program)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--trace-limit")
}

func TestDefs(t *testing.T) {
	out, _, err := execute("defs")
	require.NoError(t, err)
	assert.Contains(t, out, "true = λfst.λsnd.fst\n")
	assert.Contains(t, out, "make_pair = λe1.λe2.λc.((c e1) e2)\n")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 16)
}

func TestStdlibFlag(t *testing.T) {
	lib := writeFile(t, "tiny.lambda", "def id x = x\n")
	out, _, err := execute("--stdlib", lib, "defs")
	require.NoError(t, err)
	assert.Equal(t, "id = λx.x\n", out)

	_, _, err = execute("--stdlib", lib, "eval", "not true")
	assert.True(t, errors.Is(err, lambda.ErrUnresolvedName))

	_, _, err = execute("--stdlib", filepath.Join(t.TempDir(), "missing.lambda"), "defs")
	assert.Error(t, err)
}

func TestWatchEvaluate(t *testing.T) {
	c := &watchCmd{g: &globalFlags{logger: zap.NewNop()}}
	var out bytes.Buffer
	require.NoError(t, c.evaluate(&out, writeFile(t, "w.lambda", "not false")))
	assert.Equal(t, "λfst.λsnd.fst\n", out.String())

	out.Reset()
	assert.Error(t, c.evaluate(&out, writeFile(t, "w.lambda", "(")))
	assert.Empty(t, out.String())
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.lambda")
	require.NoError(t, os.WriteFile(path, []byte("identity\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reads := make(chan struct{}, 64)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, zaptest.NewLogger(t), func() { reads <- struct{}{} })
	}()

	select {
	case <-reads:
	case <-time.After(5 * time.Second):
		t.Fatal("file was not read initially")
	}
	// the watch may not be installed yet, so keep writing
	require.Eventually(t, func() bool {
		assert.NoError(t, os.WriteFile(path, []byte("self_apply\n"), 0o644))
		select {
		case <-reads:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchFileReportsLostWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.lambda")
	require.NoError(t, os.WriteFile(path, []byte("identity\n"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reads := make(chan struct{}, 64)
	go watchFile(ctx, path, zap.New(core), func() { reads <- struct{}{} })

	select {
	case <-reads:
	case <-time.After(5 * time.Second):
		t.Fatal("file was not read initially")
	}
	// a reread after a change proves the watch loop runs
	require.Eventually(t, func() bool {
		assert.NoError(t, os.WriteFile(path, []byte("self_apply\n"), 0o644))
		select {
		case <-reads:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("cannot watch").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, logs.FilterMessage("cannot watch").All()[0].ContextMap()["file"])
}
