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

// MaxNumeral is the largest decimal literal the builder expands.
const MaxNumeral = 1 << 20

var (
	numeralZero = Function{"x", Name{"x"}}
	// the tag in every cons cell of a numeral; church false
	numeralFalse = Function{"fst", Function{"snd", Name{"snd"}}}
)

// Numeral builds the tree for n: 0 is λx.x and n is λs.((s false) n-1),
// a pair of false and the predecessor, so zero test and predecessor are
// single selections.
func Numeral(n int) Expression {
	var result Expression = numeralZero
	for i := 0; i < n; i++ {
		result = Function{"s", Application{Application{Name{"s"}, numeralFalse}, result}}
	}
	return result
}
