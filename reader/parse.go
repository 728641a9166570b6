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

package reader

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// ErrSyntax is matched by every error Parse returns.
var ErrSyntax = errors.New("syntax error")

type SyntaxError struct {
	Pos Pos
	Msg string
	// Incomplete is set when the input ended in the middle of an expression,
	// e.g. inside parentheses. A prompt may ask for more input then.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// IsNumeral reports whether name is a decimal integer literal.
func IsNumeral(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// Parse reads one compilation unit. The text is NFC-normalized first so that
// visually equal identifiers compare equal.
//
// On a syntax error the returned File still holds every definition that was
// completely read before the error.
func Parse(source, text string) (*File, error) {
	tokens, lexErr := tokenize(source, norm.NFC.String(text))
	p := &parser{tokens: tokens}
	f, err := p.file()
	if lexErr == nil {
		return f, err
	} else if err == nil {
		err = lexErr
	} else if syntax, ok := err.(*SyntaxError); ok && syntax.Incomplete {
		// the end was only where the bad character stopped the tokenizer
		err = lexErr
	}
	f.Expression = nil
	return f, err
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.pos++
	}
}

func (p *parser) fail(t token, format string, a ...interface{}) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, a...), Incomplete: t.kind == tokEOF}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.fail(t, "expecting %s, found %s", what, t)
	}
	return t, nil
}

func (p *parser) binding(what string) (token, error) {
	t, err := p.expect(tokName, what)
	if err != nil {
		return t, err
	}
	if IsNumeral(t.text) {
		return t, p.fail(t, "numeral %s cannot be bound", t.text)
	}
	return t, nil
}

func startsExpression(kind tokenKind) bool {
	return kind == tokName || kind == tokBinder || kind == tokOpen
}

func (p *parser) file() (*File, error) {
	f := new(File)
	p.skipNewlines()
	for p.peek().kind == tokDef {
		def, err := p.definition()
		if err != nil {
			return f, err
		}
		f.Definitions = append(f.Definitions, def)
		p.skipNewlines()
	}
	if p.peek().kind == tokEOF {
		return f, nil
	}
	expr, err := p.sequence(false)
	if err != nil {
		return f, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return f, p.fail(t, "unexpected %s after expression", t)
	}
	f.Expression = expr
	return f, nil
}

func (p *parser) definition() (*Definition, error) {
	start := p.next()
	name, err := p.binding("definition name")
	if err != nil {
		return nil, err
	}
	var params []string
	for p.peek().kind == tokName {
		param, err := p.binding("parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, param.text)
	}
	if _, err := p.expect(tokEquals, "'='"); err != nil {
		return nil, err
	}
	p.skipNewlines() // the body may start on the next line
	body, err := p.sequence(true)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokNewline && t.kind != tokEOF {
		return nil, p.fail(t, "unexpected %s in definition of %s", t, name.text)
	}
	return &Definition{Pos: start.pos, Name: name.text, Parameters: params, Body: body}, nil
}

// sequence reads juxtaposed expressions. Inside a definition the line ends it.
func (p *parser) sequence(lineEnds bool) (Node, error) {
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	items := []Node{first}
	for {
		if !lineEnds {
			p.skipNewlines()
		}
		if !startsExpression(p.peek().kind) {
			break
		}
		item, err := p.expression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &ApplicationNode{Pos: first.Position(), Items: items}, nil
}

func (p *parser) expression() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokName:
		return &NameNode{Pos: t.pos, Name: t.text}, nil
	case tokBinder:
		param, err := p.binding("parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokDot, "'.'"); err != nil {
			return nil, err
		}
		p.skipNewlines()
		body, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &FunctionNode{Pos: t.pos, Parameter: param.text, Body: body}, nil
	case tokOpen:
		var items []Node
		for p.peek().kind != tokClose {
			if p.peek().kind == tokEOF {
				return nil, p.fail(p.peek(), "expecting matching )")
			}
			item, err := p.expression()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			return nil, p.fail(t, "empty parentheses")
		}
		p.next()
		if len(items) == 1 {
			return items[0], nil
		}
		return &ApplicationNode{Pos: t.pos, Items: items}, nil
	}
	return nil, p.fail(t, "unexpected %s", t)
}
