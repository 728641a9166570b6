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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type watchCmd struct {
	g *globalFlags
}

func (c *watchCmd) register() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Evaluate FILE in a fresh session whenever it changes",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *watchCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	out := cmd.OutOrStdout()
	path := args[0]
	return watchFile(ctx, path, c.g.logger, func() {
		// error happens during reload: log to console
		if err := c.evaluate(out, path); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	})
}

func (c *watchCmd) evaluate(out io.Writer, path string) error {
	e, err := c.g.newEvaluator()
	if err != nil {
		return err
	}
	result, err := e.EvaluateFile(path, nil)
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Fprintln(out, result)
	}
	return nil
}

// watchFile calls reread once and then after every change of path until ctx
// is done.
func watchFile(ctx context.Context, path string, logger *zap.Logger, reread func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	reread() // read once at the beginning in sync
	if err := watcher.Add(path); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching failed", zap.String("file", path), zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("file changed", zap.String("file", path), zap.Stringer("op", event.Op))
			// flush all other events
		settle:
			for {
				time.Sleep(10 * time.Millisecond) // delay a bit, so we don't read empty files
				select {
				case <-watcher.Events:
					// ignore
				default:
					break settle
				}
			}
			reread()
			// text editors rename, so we have to rewatch
			if err := watcher.Add(path); err != nil {
				logger.Warn("cannot watch", zap.String("file", path), zap.Error(err))
			}
		}
	}
}
