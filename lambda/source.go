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
import "os"
import "path/filepath"
import "github.com/pkg/errors"
import "github.com/pierrec/lz4/v4"
import "github.com/ulikunitz/xz"

type readCloser struct {
	io.Reader
	io.Closer
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

// Close closes the compressor first, then the file below it.
func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenSource opens a source file. Files ending in .xz or .lz4 are
// decompressed on the fly.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".xz":
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		return readCloser{r, f}, nil
	case ".lz4":
		return readCloser{lz4.NewReader(f), f}, nil
	}
	return f, nil
}

// CreateSink creates a file for writing, compressed like OpenSource expects.
func CreateSink(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".xz":
		w, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		return &writeCloser{w, []io.Closer{w, f}}, nil
	case ".lz4":
		w := lz4.NewWriter(f)
		return &writeCloser{w, []io.Closer{w, f}}, nil
	}
	return f, nil
}

// EvaluateFile evaluates a whole source file as one unit in this session.
func (e *Evaluator) EvaluateFile(path string, observer Observer) (Expression, error) {
	r, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return e.EvaluateReader(path, r, observer)
}
