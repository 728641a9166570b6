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
)

type defsCmd struct {
	g *globalFlags
}

func (c *defsCmd) register() *cobra.Command {
	return &cobra.Command{
		Use:   "defs",
		Short: "List the definitions of the standard library",
		Args:  cobra.NoArgs,
	}
}

func (c *defsCmd) run(cmd *cobra.Command, args []string) error {
	e, err := c.g.newEvaluator()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	e.Definitions().Ascend(func(name string, value lambda.Expression) bool {
		fmt.Fprintln(out, name, "=", value)
		return true
	})
	return nil
}
