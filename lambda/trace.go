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

import "io"
import "sync"
import "time"
import "encoding/json"

// longer expressions are cut in trace arguments
const traceArgumentLength = 1024

// TraceObserver writes reductions as a Chrome trace event file (load it in
// chrome://tracing or Perfetto). Descents become a "depth" counter, beta
// steps become instant events carrying the terms.
type TraceObserver struct {
	isFirst bool
	file    io.WriteCloser
	start   time.Time
	step    int

	limit   int64 // 0 = unlimited
	written int64
	dropped int

	closeOnce sync.Once
	closeErr  error
}

type traceEvent struct {
	Name string                 `json:"name"`
	Cat  string                 `json:"cat"`
	Ph   string                 `json:"ph"`
	Ts   int64                  `json:"ts"`
	Pid  int                    `json:"pid"`
	Tid  int                    `json:"tid"`
	S    string                 `json:"s,omitempty"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// NewTraceObserver starts a trace in file. With a limit > 0 the file stays
// below limit bytes; events that do not fit are dropped and counted.
func NewTraceObserver(file io.WriteCloser, limit int64) (*TraceObserver, error) {
	t := &TraceObserver{isFirst: true, file: file, start: time.Now(), limit: limit}
	if err := t.write([]byte("[")); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TraceObserver) StartedReduction(depth int, expr Expression) error {
	return t.event(traceEvent{
		Name: "depth",
		Cat:  "reduce",
		Ph:   "C",
		Args: map[string]interface{}{"depth": depth},
	})
}

func (t *TraceObserver) Reduced(depth int, function, argument, result Expression) error {
	t.step++
	return t.event(traceEvent{
		Name: "beta",
		Cat:  "reduce",
		Ph:   "i",
		S:    "g",
		Args: map[string]interface{}{
			"depth":    depth,
			"step":     t.step,
			"function": clip(function.String()),
			"argument": clip(argument.String()),
			"result":   clip(result.String()),
		},
	})
}

func (t *TraceObserver) event(ev traceEvent) error {
	ev.Ts = time.Since(t.start).Microseconds()
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if !t.isFirst {
		b = append([]byte(",\n"), b...)
	}
	// keep one byte for the closing bracket
	if t.limit > 0 && t.written+int64(len(b))+1 > t.limit {
		t.dropped++
		return nil
	}
	t.isFirst = false
	return t.write(b)
}

func (t *TraceObserver) write(b []byte) error {
	n, err := t.file.Write(b)
	t.written += int64(n)
	return err
}

// Written is the number of uncompressed bytes written so far.
func (t *TraceObserver) Written() int64 {
	return t.written
}

// Dropped counts the events that did not fit below the limit.
func (t *TraceObserver) Dropped() int {
	return t.dropped
}

// Close terminates the JSON array and closes the file. It is safe to call
// more than once.
func (t *TraceObserver) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.write([]byte("]"))
		if err := t.file.Close(); err != nil && t.closeErr == nil {
			t.closeErr = err
		}
	})
	return t.closeErr
}

func clip(s string) string {
	if len(s) <= traceArgumentLength {
		return s
	}
	cut := traceArgumentLength
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut-- // do not split a utf-8 sequence
	}
	return s[:cut] + "…"
}
