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

import (
	"fmt"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/prompt"
)

// Rename is a resolved (add, remove) pair the Differ turns into a single
// RenameAttribute.
type Rename struct {
	Old Attribute
	New Attribute
}

// ResolveRenames implements §4.5: given the attributes the Differ would
// otherwise add and remove for one table, it interactively asks whether any
// add/remove pair is actually a rename, and returns what's left to add,
// what's left to remove, and the renames it found.
func ResolveRenames(table string, adding, removing []Attribute, p prompt.Prompter) (stillAdding, stillRemoving []Attribute, renames []Rename, err error) {
	if len(removing) == 0 {
		return adding, nil, nil, nil
	}

	if len(adding) == 1 && len(removing) == 1 {
		yes, err := p.Confirm(fmt.Sprintf("Are you renaming :%s to :%s?", removing[0].Name, adding[0].Name))
		if err != nil {
			return nil, nil, nil, err
		}
		if yes {
			return nil, nil, []Rename{{Old: removing[0], New: adding[0]}}, nil
		}
		return adding, removing, nil, nil
	}

	remainingAdding := append([]Attribute(nil), adding...)
	var remainingRemoving []Attribute

	for _, rem := range removing {
		yes, err := p.Confirm(fmt.Sprintf("Are you renaming :%s?", rem.Name))
		if err != nil {
			return nil, nil, nil, err
		}
		if !yes {
			remainingRemoving = append(remainingRemoving, rem)
			continue
		}

		matched := false
		for try := 0; try < 3; try++ {
			target, err := p.Prompt("What are you renaming it to?")
			if err != nil {
				return nil, nil, nil, err
			}
			if idx := indexOfAttribute(remainingAdding, target); idx >= 0 {
				renames = append(renames, Rename{Old: rem, New: remainingAdding[idx]})
				remainingAdding = append(remainingAdding[:idx], remainingAdding[idx+1:]...)
				matched = true
				break
			}
		}
		if !matched {
			return nil, nil, nil, schemaerrors.NewRenameResolutionFailedError(table, 3)
		}
	}

	if len(remainingAdding) == 0 {
		remainingAdding = nil
	}
	return remainingAdding, remainingRemoving, renames, nil
}

func indexOfAttribute(attrs []Attribute, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}
