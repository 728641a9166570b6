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
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"
	"github.com/launix-de/lambda/reader"
	"github.com/pkg/errors"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

const replHelp = `enter definitions (def name params = body) or an expression to reduce
  :defs          list all defined names
  :show NAME     print the value bound to NAME
  :trace on|off  print every reduction step
  :help          this text
  :quit          leave
`

// replSession holds the state of one interactive session apart from the
// terminal, so it can be driven line by line.
type replSession struct {
	evaluator *Evaluator
	out       io.Writer
	trace     bool
	pending   string
}

// feed handles one line of input. more is set while the line was kept for a
// continuation, quit when the user asked to leave.
func (s *replSession) feed(line string) (more, quit bool) {
	if s.pending == "" {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return false, false
		}
		if strings.HasPrefix(trimmed, ":") {
			return false, s.command(strings.Fields(trimmed))
		}
	}
	text := s.pending + line

	// anti-panic func
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(s.out, "panic:", r, string(debug.Stack()))
			s.pending = ""
			more = false
		}
	}()
	var observer Observer = EmptyObserver
	if s.trace {
		observer = NewPrintObserver(s.out)
	}
	result, err := s.evaluator.EvaluateSource("user prompt", text, observer)
	var syntax *reader.SyntaxError
	if errors.As(err, &syntax) && syntax.Incomplete {
		s.pending = text + "\n"
		return true, false
	}
	s.pending = ""
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
	} else if result != nil {
		fmt.Fprintln(s.out, resultprompt+result.String())
	}
	return false, false
}

func (s *replSession) command(args []string) (quit bool) {
	switch args[0] {
	case ":quit", ":q":
		return true
	case ":help":
		io.WriteString(s.out, replHelp)
	case ":defs":
		fmt.Fprintln(s.out, strings.Join(s.evaluator.Definitions().Names(), " "))
	case ":show":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: :show NAME")
			break
		}
		value, ok := s.evaluator.Definitions().Lookup(args[1])
		if !ok {
			fmt.Fprintln(s.out, "error:", errors.Wrap(ErrUnresolvedName, args[1]))
			break
		}
		fmt.Fprintln(s.out, args[1], "=", value)
	case ":trace":
		if len(args) == 2 && (args[1] == "on" || args[1] == "off") {
			s.trace = args[1] == "on"
		}
		if s.trace {
			fmt.Fprintln(s.out, "trace is on")
		} else {
			fmt.Fprintln(s.out, "trace is off")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", args[0])
	}
	return false
}

// Repl runs an interactive prompt on the terminal until EOF or :quit.
func Repl(e *Evaluator, historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	s := &replSession{evaluator: e, out: l.Stdout()}
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if s.pending == "" && len(line) == 0 {
				return nil
			}
			s.pending = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		more, quit := s.feed(line)
		if quit {
			return nil
		}
		if more {
			l.SetPrompt(contprompt)
		} else {
			l.SetPrompt(newprompt)
		}
	}
}
