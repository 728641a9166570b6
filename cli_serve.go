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
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-units"
	"github.com/launix-de/lambda/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type serveCmd struct {
	g             *globalFlags
	listen        string
	maxTraceSteps int
	maxRequest    string
}

func (c *serveCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Offer sessions over websockets at /eval",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&c.listen, "listen", "localhost:8080", "`ADDR` to listen on")
	cmd.Flags().IntVar(&c.maxTraceSteps, "max-trace-steps", server.DefaultMaxTraceSteps, "step messages sent per traced request")
	cmd.Flags().StringVar(&c.maxRequest, "max-request-size", units.BytesSize(server.DefaultMaxRequestBytes), "largest accepted request, e.g. 64KiB")
	return cmd
}

func (c *serveCmd) run(cmd *cobra.Command, args []string) error {
	opts, err := c.g.options()
	if err != nil {
		return err
	}
	maxRequest, err := units.RAMInBytes(c.maxRequest)
	if err != nil {
		return errors.Wrap(err, "--max-request-size")
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	s := server.New(server.Config{
		Logger:          c.g.logger,
		MaxTraceSteps:   c.maxTraceSteps,
		MaxRequestBytes: maxRequest,
		Options:         opts,
	})
	return s.ListenAndServe(ctx, c.listen)
}
