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
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokDef
	tokEquals
	tokBinder
	tokDot
	tokOpen
	tokClose
	tokNewline
)

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokName:
		return fmt.Sprintf("name %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

// λ is a letter to unicode, but it is always a binder here
func isNameRune(ch rune) bool {
	if ch == 'λ' {
		return false
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || strings.ContainsRune("_'-?!", ch)
}

// Lexical Analysis
func tokenize(source, s string) ([]token, error) {
	/* tokenizer state machine:
		0 = expecting next item
		1 = inside Name
		2 = inside comment (# until end of line)

	newlines are only significant outside of parentheses, they end a definition
	*/
	line := 1
	col := 1
	depth := 0

	state := 0
	startToken := 0
	var startPos Pos
	result := make([]token, 0, len(s)/2+1)
	flushName := func(end int) {
		text := s[startToken:end]
		kind := tokName
		if text == "def" {
			kind = tokDef
		}
		result = append(result, token{kind, text, startPos})
	}
	for i, ch := range s {
		pos := Pos{source, line, col}
		// line counting
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}

		if state == 1 && isNameRune(ch) {
			// another character added to Name
			continue
		} else if state == 1 {
			flushName(i)
			state = 0
		} else if state == 2 && ch != '\n' {
			// consume another character in comment
			continue
		} else if state == 2 {
			state = 0
		}

		switch {
		case ch == '\n':
			if depth == 0 {
				result = append(result, token{tokNewline, "\n", pos})
			}
		case unicode.IsSpace(ch):
			// skip
		case ch == '#':
			state = 2
		case ch == '(':
			depth++
			result = append(result, token{tokOpen, "(", pos})
		case ch == ')':
			if depth > 0 {
				depth--
			}
			result = append(result, token{tokClose, ")", pos})
		case ch == '\\' || ch == 'λ':
			result = append(result, token{tokBinder, string(ch), pos})
		case ch == '.':
			result = append(result, token{tokDot, ".", pos})
		case ch == '=':
			result = append(result, token{tokEquals, "=", pos})
		case isNameRune(ch):
			state = 1
			startToken = i
			startPos = pos
		default:
			// hand out the lines read so far so their definitions survive
			end := 0
			for j, t := range result {
				if t.kind == tokNewline {
					end = j + 1
				}
			}
			result = append(result[:end], token{tokEOF, "", pos})
			return result, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", ch)}
		}
	}
	if state == 1 {
		flushName(len(s))
	}
	result = append(result, token{tokEOF, "", Pos{source, line, col}})
	return result, nil
}
