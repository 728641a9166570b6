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

	"github.com/spf13/cobra"
)

type runCmd struct {
	g *globalFlags
	observerFlags
}

func (c *runCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Evaluate source files in one session and print their normal forms",
		Long: `Evaluate source files in one session and print their normal forms.

Files are read in order, definitions of earlier files are visible in later ones.
Files ending in .xz or .lz4 are decompressed.`,
		Args: cobra.MinimumNArgs(1),
	}
	c.addTo(cmd.Flags())
	return cmd
}

func (c *runCmd) run(cmd *cobra.Command, args []string) error {
	e, err := c.g.newEvaluator()
	if err != nil {
		return err
	}
	observer, closeObserver, err := c.open(cmd.ErrOrStderr(), c.g.logger)
	if err != nil {
		return err
	}
	defer closeObserver()
	for _, path := range args {
		result, err := e.EvaluateFile(path, observer)
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}
	}
	return closeObserver()
}

type evalCmd struct {
	g *globalFlags
	observerFlags
}

func (c *evalCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval TEXT...",
		Short: "Evaluate command line arguments, each as its own unit in one session",
		Example: `  lambda eval 'not true'
  lambda eval 'def twice f x = f (f x)' 'twice not false'`,
		Args: cobra.MinimumNArgs(1),
	}
	c.addTo(cmd.Flags())
	return cmd
}

func (c *evalCmd) run(cmd *cobra.Command, args []string) error {
	e, err := c.g.newEvaluator()
	if err != nil {
		return err
	}
	observer, closeObserver, err := c.open(cmd.ErrOrStderr(), c.g.logger)
	if err != nil {
		return err
	}
	defer closeObserver()
	for i, text := range args {
		result, err := e.EvaluateSource(fmt.Sprintf("argument %d", i+1), text, observer)
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}
	}
	return closeObserver()
}
