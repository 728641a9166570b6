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
	"fmt"

	"github.com/launix-de/lambda/lambda"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type replCmd struct {
	g       *globalFlags
	history string
}

func (c *replCmd) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.history, "history", ".lambda-history.tmp", "history `FILE` of the prompt")
}

func (c *replCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt (the default command)",
		Args:  cobra.NoArgs,
	}
	c.addFlags(cmd.Flags())
	return cmd
}

func (c *replCmd) run(cmd *cobra.Command, args []string) error {
	e, err := c.g.newEvaluator()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), `lambda Copyright (C) 2024   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;

    Type :help to show help

`)
	return lambda.Repl(e, c.history)
}
