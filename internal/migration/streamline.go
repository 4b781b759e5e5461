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

// Streamline makes one left-to-right pass over an ordered operation list,
// fusing a bare AddAttribute with an immediately-following AlterAttribute
// that only restores the reference the Differ stripped off it, back into a
// single reference-bearing AddAttribute (§4.7). This undoes the Differ's
// references-first split once it has done its job of giving the Orderer
// something to sequence against.
func Streamline(ops []Operation) []Operation {
	out := make([]Operation, 0, len(ops))

	for i := 0; i < len(ops); i++ {
		op := ops[i]

		if op.Kind == OpAddAttribute && i+1 < len(ops) {
			next := ops[i+1]
			if fusesAddReference(op, next) {
				out = append(out, Operation{
					Kind:      OpAddAttribute,
					Table:     op.Table,
					Attribute: next.NewAttribute,
				})
				i++
				continue
			}
		}

		if op.Kind == OpAlterAttribute && i+1 < len(ops) {
			next := ops[i+1]
			if fusesAlterReference(op, next) {
				out = append(out, Operation{
					Kind:         OpAlterAttribute,
					Table:        op.Table,
					OldAttribute: op.OldAttribute,
					NewAttribute: next.NewAttribute,
				})
				i++
				continue
			}
		}

		out = append(out, op)
	}

	return out
}

// fusesAddReference reports whether add (a bare AddAttribute) is immediately
// completed by alter, the AlterAttribute restoring the reference the Differ
// split off it.
func fusesAddReference(add, alter Operation) bool {
	return alter.Kind == OpAlterAttribute &&
		alter.Table == add.Table &&
		alter.OldAttribute.Name == add.Attribute.Name &&
		alter.OldAttribute.Equal(add.Attribute) &&
		alter.NewAttribute.References != nil
}

// fusesAlterReference reports whether strip (an AlterAttribute stripping a
// reference) is immediately completed by restore, the AlterAttribute putting
// it back.
func fusesAlterReference(strip, restore Operation) bool {
	return restore.Kind == OpAlterAttribute &&
		restore.Table == strip.Table &&
		restore.OldAttribute.Equal(strip.NewAttribute) &&
		strip.NewAttribute.References == nil &&
		restore.NewAttribute.References != nil
}
