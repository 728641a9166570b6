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
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Observer receives reduction telemetry.
//
// StartedReduction is called once per descent, before the node is worked on.
// Reduced is called once per beta step with the function and the unreduced
// argument before substitution and the substituted result.
// Returning an error aborts the reduction with that error.
type Observer interface {
	StartedReduction(depth int, expr Expression) error
	Reduced(depth int, function, argument, result Expression) error
}

type emptyObserver struct{}

func (emptyObserver) StartedReduction(int, Expression) error                { return nil }
func (emptyObserver) Reduced(int, Expression, Expression, Expression) error { return nil }

// EmptyObserver ignores everything.
var EmptyObserver Observer = emptyObserver{}

// PrintObserver writes one line per descent and per beta step.
type PrintObserver struct {
	out   io.Writer
	step  int
	label *color.Color
	arrow *color.Color
}

// NewPrintObserver prints to out. Colors are only used if out is a terminal.
func NewPrintObserver(out io.Writer) *PrintObserver {
	label := color.New(color.FgGreen)
	arrow := color.New(color.FgRed)
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		label.EnableColor()
		arrow.EnableColor()
	} else {
		label.DisableColor()
		arrow.DisableColor()
	}
	return &PrintObserver{out: out, label: label, arrow: arrow}
}

func (p *PrintObserver) StartedReduction(depth int, expr Expression) error {
	_, err := p.label.Fprintf(p.out, "(depth=%d)", depth)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.out, " evaluating "+expr.String()+"\n")
	return err
}

func (p *PrintObserver) Reduced(depth int, function, argument, result Expression) error {
	_, err := p.label.Fprintf(p.out, "(depth=%d, step=%d)", depth, p.step)
	if err != nil {
		return err
	}
	p.step++
	if _, err = io.WriteString(p.out, " reduced ("+function.String()+" "+argument.String()+") "); err != nil {
		return err
	}
	if _, err = p.arrow.Fprint(p.out, "=>"); err != nil {
		return err
	}
	_, err = io.WriteString(p.out, " "+result.String()+"\n")
	return err
}

// CountingObserver collects statistics about one or more reductions.
type CountingObserver struct {
	Descents int
	Steps    int
	MaxDepth int
}

func (c *CountingObserver) StartedReduction(depth int, expr Expression) error {
	c.Descents++
	if depth > c.MaxDepth {
		c.MaxDepth = depth
	}
	return nil
}

func (c *CountingObserver) Reduced(depth int, function, argument, result Expression) error {
	c.Steps++
	return nil
}

type multiObserver []Observer

// MultiObserver forwards every callback to all observers in order and stops
// at the first error.
func MultiObserver(observers ...Observer) Observer {
	return multiObserver(observers)
}

func (m multiObserver) StartedReduction(depth int, expr Expression) error {
	for _, o := range m {
		if err := o.StartedReduction(depth, expr); err != nil {
			return err
		}
	}
	return nil
}

func (m multiObserver) Reduced(depth int, function, argument, result Expression) error {
	for _, o := range m {
		if err := o.Reduced(depth, function, argument, result); err != nil {
			return err
		}
	}
	return nil
}
