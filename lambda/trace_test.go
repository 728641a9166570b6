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
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed int
}

func (b *bufferCloser) Close() error {
	b.closed++
	return nil
}

func TestTraceObserver(t *testing.T) {
	var file bufferCloser
	trace, err := NewTraceObserver(&file, 0)
	require.NoError(t, err)
	_, err = Reduce(NewApplication(selfApply, identity), trace)
	require.NoError(t, err)
	require.NoError(t, trace.Close())
	require.NoError(t, trace.Close())
	assert.Equal(t, 1, file.closed)

	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(file.Bytes(), &events), file.String())
	var betas []map[string]interface{}
	for _, ev := range events {
		if ev["name"] == "beta" {
			betas = append(betas, ev["args"].(map[string]interface{}))
		} else {
			assert.Equal(t, "C", ev["ph"])
		}
	}
	require.Len(t, betas, 2)
	assert.Equal(t, "λs.(s s)", betas[0]["function"])
	assert.Equal(t, "(λx.x λx.x)", betas[0]["result"])
	assert.Equal(t, "λx.x", betas[1]["result"])
	assert.Equal(t, int64(file.Len()), trace.Written())
	assert.Zero(t, trace.Dropped())
}

func TestTraceObserverLimit(t *testing.T) {
	var file bufferCloser
	trace, err := NewTraceObserver(&file, 200)
	require.NoError(t, err)
	_, err = Reduce(NewApplication(selfApply, identity), trace)
	require.NoError(t, err)
	require.NoError(t, trace.Close())

	assert.LessOrEqual(t, file.Len(), 200)
	assert.Greater(t, trace.Dropped(), 0)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(file.Bytes(), &events), file.String())
	assert.NotEmpty(t, events)
}

func TestTraceObserverCompressed(t *testing.T) {
	for _, name := range []string{"trace.json", "trace.json.xz", "trace.json.lz4"} {
		path := filepath.Join(t.TempDir(), name)
		sink, err := CreateSink(path)
		require.NoError(t, err)
		trace, err := NewTraceObserver(sink, 0)
		require.NoError(t, err)
		_, err = Reduce(NewApplication(identity, NewName("a")), trace)
		require.NoError(t, err)
		require.NoError(t, trace.Close())

		r, err := OpenSource(path)
		require.NoError(t, err)
		var events []map[string]interface{}
		require.NoError(t, json.NewDecoder(r).Decode(&events), name)
		require.NoError(t, r.Close())
		assert.Len(t, events, 4, name)
	}
}

func TestClip(t *testing.T) {
	short := "λx.x"
	assert.Equal(t, short, clip(short))

	long := string(bytes.Repeat([]byte("λ"), traceArgumentLength))
	clipped := clip(long)
	assert.LessOrEqual(t, len(clipped), traceArgumentLength+len("…"))
	assert.True(t, json.Valid([]byte(`"`+clipped+`"`)))
	assert.Equal(t, "…", clipped[len(clipped)-len("…"):])
}
