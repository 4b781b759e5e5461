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

// Order runs the stable insertion sort of §4.6: each incoming operation is
// inserted immediately after the last accumulator entry it must follow. An
// operation that follows nothing is inserted just before the first entry
// that must follow it, or appended if there is none, so operations no rule
// relates keep their input order.
func Order(ops []Operation) []Operation {
	var acc []Operation
	for _, op := range ops {
		pos := -1
		for i := range acc {
			if after(op, acc[i]) {
				pos = i + 1
			}
		}
		if pos == -1 {
			pos = len(acc)
			for j := range acc {
				if after(acc[j], op) {
					pos = j
					break
				}
			}
		}
		acc = append(acc, Operation{})
		copy(acc[pos+1:], acc[pos:])
		acc[pos] = op
	}
	return acc
}

// after implements the after? predicate table of §4.6: does op have to come
// after prev? First matching rule wins; default false.
func after(op, prev Operation) bool {
	switch op.Kind {
	case OpAddUniqueIndex:
		keys := op.Identity.Keys
		switch {
		case prev.Kind == OpAddAttribute && prev.Table == op.Table && containsString(keys, prev.Attribute.Name):
			return true
		case prev.Kind == OpAlterAttribute && prev.Table == op.Table && containsString(keys, prev.NewAttribute.Name):
			return true
		case prev.Kind == OpRenameAttribute && prev.Table == op.Table && containsString(keys, prev.NewAttribute.Name):
			return true
		case prev.Kind == OpCreateTable && prev.Table == op.Table:
			return true
		}
		return false

	case OpRemoveUniqueIndex:
		keys := op.Identity.Keys
		switch {
		case prev.Kind == OpRemoveAttribute && prev.Table == op.Table && containsString(keys, prev.Attribute.Name):
			return true
		case prev.Kind == OpRenameAttribute && prev.Table == op.Table && containsString(keys, prev.OldAttribute.Name):
			return true
		}
		return false

	case OpAddAttribute:
		if prev.Kind == OpCreateTable && prev.Table == op.Table {
			return true
		}
		if ref := op.Attribute.References; ref != nil {
			if prev.Kind == OpAddAttribute && prev.Table == ref.Table && prev.Attribute.Name == ref.DestinationField {
				return true
			}
		}
		if !op.Attribute.PrimaryKey {
			if prev.Kind == OpAddAttribute && prev.Table == op.Table && prev.Attribute.PrimaryKey {
				return true
			}
		}
		if op.Attribute.PrimaryKey {
			if prev.Kind == OpRemoveAttribute && prev.Table == op.Table && prev.Attribute.PrimaryKey {
				return true
			}
		}
		return false

	case OpAlterAttribute:
		if !op.NewAttribute.PrimaryKey && op.OldAttribute.PrimaryKey {
			if prev.Kind == OpAddAttribute && prev.Table == op.Table && prev.Attribute.PrimaryKey {
				return true
			}
		}
		if ref := op.NewAttribute.References; ref != nil {
			// references-bearing alters go last, after any prior operation
			// (this subsumes the narrower add-attribute-target rule).
			return true
		}
		return false

	case OpRemoveAttribute:
		if prev.Kind == OpAlterAttribute && prev.OldAttribute.References != nil {
			ref := prev.OldAttribute.References
			if ref.Table == op.Table && ref.DestinationField == op.Attribute.Name {
				return true
			}
		}
		return false
	}

	return false
}

func containsString(set []string, target string) bool {
	for _, s := range set {
		if s == target {
			return true
		}
	}
	return false
}
