/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package migration

// Phases runs the open/close phase state machine of §4.8: consecutive
// same-table attribute operations are grouped into one Create or Alter
// phase, a CreateTable opens a Create phase, and any other operation closes
// the current phase (if open) and gets a singleton Alter phase of its own.
//
// Each open phase accumulates its operations by prepending, then reverses
// them on close to restore insertion order — the cheap way to grow a list
// one element at a time without repeated tail appends.
func Phases(ops []Operation) []Phase {
	var phases []Phase
	var current *Phase

	closeCurrent := func() {
		if current == nil {
			return
		}
		n := len(current.Operations)
		reversed := make([]Operation, n)
		for i, op := range current.Operations {
			reversed[n-1-i] = op
		}
		current.Operations = reversed
		phases = append(phases, *current)
		current = nil
	}

	for _, op := range ops {
		switch {
		case op.Kind == OpCreateTable:
			closeCurrent()
			current = &Phase{Kind: PhaseCreate, Table: op.Table, Operations: []Operation{op}}

		case op.AttributeLevel():
			if current != nil && current.Table == op.Table {
				current.Operations = prependOp(current.Operations, op)
				continue
			}
			closeCurrent()
			current = &Phase{Kind: PhaseAlter, Table: op.Table, Operations: []Operation{op}}

		default:
			closeCurrent()
			phases = append(phases, Phase{Kind: PhaseAlter, Table: op.Table, Operations: []Operation{op}})
		}
	}
	closeCurrent()

	return phases
}

func prependOp(ops []Operation, op Operation) []Operation {
	out := make([]Operation, 0, len(ops)+1)
	out = append(out, op)
	out = append(out, ops...)
	return out
}
