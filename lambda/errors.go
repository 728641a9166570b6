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
	"github.com/launix-de/lambda/reader"
	"github.com/pkg/errors"
)

// The three fatal conditions. Match them with errors.Is; the returned errors
// carry the source position or depth limit as context.
var (
	ErrSyntax                 = reader.ErrSyntax
	ErrUnresolvedName         = errors.New("unresolved name")
	ErrRecursionLimitExceeded = errors.New("recursion depth limit exceeded")
)
