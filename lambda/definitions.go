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
	"github.com/google/btree"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type definition struct {
	name  string
	value Expression
}

// Definitions maps names to their expressions. Redefining a name replaces
// the value for later lookups only; expressions already built keep the value
// they were given. Iteration is in collation order.
//
// A Definitions table belongs to one session and is not safe for concurrent use.
type Definitions struct {
	tree *btree.BTreeG[definition]
}

func NewDefinitions() *Definitions {
	collator := collate.New(language.Und)
	return &Definitions{
		tree: btree.NewG[definition](8, func(a, b definition) bool {
			if c := collator.CompareString(a.name, b.name); c != 0 {
				return c < 0
			}
			return a.name < b.name // collation ties
		}),
	}
}

// Define sets name to value and reports whether an older value was replaced.
func (d *Definitions) Define(name string, value Expression) bool {
	_, replaced := d.tree.ReplaceOrInsert(definition{name, value})
	return replaced
}

func (d *Definitions) Lookup(name string) (Expression, bool) {
	def, ok := d.tree.Get(definition{name: name})
	if !ok {
		return nil, false
	}
	return def.value, true
}

func (d *Definitions) Len() int {
	return d.tree.Len()
}

// Ascend calls fn for each definition in order until fn returns false.
func (d *Definitions) Ascend(fn func(name string, value Expression) bool) {
	d.tree.Ascend(func(def definition) bool {
		return fn(def.name, def.value)
	})
}

func (d *Definitions) Names() []string {
	names := make([]string, 0, d.tree.Len())
	d.Ascend(func(name string, _ Expression) bool {
		names = append(names, name)
		return true
	})
	return names
}
