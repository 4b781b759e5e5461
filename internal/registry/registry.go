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

// Package registry gives resource.Handle a concrete, in-process home: a
// package registers its resources by calling Register from an init
// function, and the generate command reads them back with All. Discover
// additionally lists the current module's direct (non-indirect)
// dependencies from go.mod, minus those matching caller-supplied
// gitignore-style patterns, as candidate homes for resource definitions;
// it does not load or inspect their packages.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/mod/modfile"

	"github.com/ocomsoft/schemamigrate/internal/resource"
)

var byTable = map[string]resource.Handle{}

// Register adds a resource to the process-wide registry. Call it from an
// init function in the package that defines the resource.
func Register(h resource.Handle) {
	byTable[h.Table()] = h
}

// Get looks up a previously registered resource by table name.
func Get(table string) resource.Handle {
	return byTable[table]
}

// All returns every registered resource, sorted by table name for
// deterministic iteration.
func All() []resource.Handle {
	names := make([]string, 0, len(byTable))
	for name := range byTable {
		names = append(names, name)
	}
	sort.Strings(names)

	handles := make([]resource.Handle, 0, len(names))
	for _, name := range names {
		handles = append(handles, byTable[name])
	}
	return handles
}

// Reset clears the registry. Exposed for tests that register fixtures.
func Reset() {
	byTable = map[string]resource.Handle{}
}

// DiscoveredPackage is a candidate resource-defining package found by
// Discover: an import path belonging to a direct, non-indirect dependency
// of the current module, not excluded by ignorePatterns.
type DiscoveredPackage struct {
	ImportPath string
	ModulePath string
	Version    string
}

// Discover reads go.mod at goModPath and lists the direct dependencies that
// are candidates for housing resource definitions, skipping any whose
// module path matches one of ignorePatterns (gitignore-style globs, e.g.
// "github.com/ocomsoft/*/internal/*").
func Discover(goModPath string, ignorePatterns []string) ([]DiscoveredPackage, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", goModPath, err)
	}

	mf, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid go.mod syntax in %s: %w", goModPath, err)
	}

	var matcher *gitignore.GitIgnore
	if len(ignorePatterns) > 0 {
		matcher = gitignore.CompileIgnoreLines(ignorePatterns...)
	}

	var found []DiscoveredPackage
	for _, req := range mf.Require {
		if req.Indirect {
			continue
		}
		if matcher != nil && matcher.MatchesPath(req.Mod.Path) {
			continue
		}
		found = append(found, DiscoveredPackage{
			ImportPath: req.Mod.Path,
			ModulePath: modCacheDir(req.Mod.Path, req.Mod.Version),
			Version:    req.Mod.Version,
		})
	}
	return found, nil
}

// modCacheDir resolves a dependency's on-disk location in the local module
// cache, for tooling that wants to inspect a dependency's source (e.g. a
// future resource-definition file finder). Returns "" if not cached.
func modCacheDir(path, version string) string {
	goPath := os.Getenv("GOPATH")
	if goPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		goPath = filepath.Join(home, "go")
	}
	version = strings.TrimSuffix(version, "+incompatible")

	dir := filepath.Join(goPath, "pkg", "mod", fmt.Sprintf("%s@%s", path, version))
	if _, err := os.Stat(dir); err == nil {
		return dir
	}

	escaped := strings.ReplaceAll(path, "/", "!")
	dir = filepath.Join(goPath, "pkg", "mod", fmt.Sprintf("%s@%s", escaped, version))
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return ""
}
