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
	_ "embed"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/launix-de/lambda/reader"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed standard.lambda
var StandardLibrary string

const standardLibrarySource = "standard.lambda"

type options struct {
	logger     *zap.Logger
	depthLimit int
	library    string
	source     string
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDepthLimit overrides DefaultDepthLimit for every reduction of the session.
func WithDepthLimit(limit int) Option {
	return func(o *options) { o.depthLimit = limit }
}

// WithStandardLibrary replaces the bundled library text. source names it in
// error messages.
func WithStandardLibrary(source, text string) Option {
	return func(o *options) {
		o.source = source
		o.library = text
	}
}

// Evaluator is one session: a definitions table seeded from the standard
// library that keeps growing with every evaluated unit.
type Evaluator struct {
	id          uuid.UUID
	definitions *Definitions
	reducer     Reducer
	logger      *zap.Logger
}

// NewEvaluator creates a session and loads the standard library into it.
// Only the library's definitions are kept; a trailing expression is dropped.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	o := options{
		logger:  zap.NewNop(),
		library: StandardLibrary,
		source:  standardLibrarySource,
	}
	for _, opt := range opts {
		opt(&o)
	}
	e := &Evaluator{
		id:          uuid.New(),
		definitions: NewDefinitions(),
		reducer:     Reducer{DepthLimit: o.depthLimit},
	}
	e.logger = o.logger.With(zap.Stringer("session", e.id))

	file, err := reader.Parse(o.source, o.library)
	if err != nil {
		return nil, errors.Wrap(err, "loading standard library")
	}
	if _, err := e.build(file); err != nil {
		return nil, errors.Wrap(err, "loading standard library")
	}
	e.logger.Debug("session started", zap.Int("definitions", e.definitions.Len()))
	return e, nil
}

func (e *Evaluator) ID() uuid.UUID {
	return e.id
}

func (e *Evaluator) Definitions() *Definitions {
	return e.definitions
}

// Evaluate reads text as one compilation unit and reduces its trailing
// expression. Definitions-only units return a nil Expression.
func (e *Evaluator) Evaluate(text string, observer Observer) (Expression, error) {
	return e.EvaluateSource("input", text, observer)
}

// EvaluateSource is Evaluate with a source name for error positions.
//
// Definitions read before a failure stay in the session, including those in
// front of a syntax error.
func (e *Evaluator) EvaluateSource(source, text string, observer Observer) (Expression, error) {
	file, parseErr := reader.Parse(source, text)
	if parseErr != nil {
		// commit what was completely read, then report the syntax error
		file.Expression = nil
		if _, err := e.build(file); err != nil {
			return nil, err
		}
		return nil, parseErr
	}
	expr, err := e.build(file)
	if err != nil || expr == nil {
		return nil, err
	}
	return e.reduce(expr, observer)
}

// EvaluateReader reads the whole stream and evaluates it as one unit.
func (e *Evaluator) EvaluateReader(source string, r io.Reader, observer Observer) (Expression, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", source)
	}
	return e.EvaluateSource(source, string(text), observer)
}

func (e *Evaluator) build(file *reader.File) (Expression, error) {
	b := &builder{defs: e.definitions}
	if e.logger.Core().Enabled(zap.DebugLevel) {
		b.defined = func(name string, value Expression, replaced bool) {
			e.logger.Debug("defined",
				zap.String("name", name),
				zap.Bool("replaced", replaced),
				zap.Int("size", Size(value)))
		}
	}
	return b.file(file)
}

func (e *Evaluator) reduce(expr Expression, observer Observer) (Expression, error) {
	if observer == nil {
		observer = EmptyObserver
	}
	if !e.logger.Core().Enabled(zap.DebugLevel) {
		return e.reducer.Reduce(expr, observer)
	}
	var stats CountingObserver
	start := time.Now()
	result, err := e.reducer.Reduce(expr, MultiObserver(&stats, observer))
	e.logger.Debug("reduced",
		zap.Int("steps", stats.Steps),
		zap.Int("descents", stats.Descents),
		zap.Int("maxDepth", stats.MaxDepth),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	return result, err
}
