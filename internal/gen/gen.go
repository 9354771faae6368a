// Package gen generates recording test doubles for Go interfaces.
//
// A double implements an interface by remembering every call (arguments
// and call count) and returning whatever results the test configured,
// falling back to zero values so an unconfigured double never blocks its
// caller.
package gen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"sort"
	"strings"
)

const (
	markerPath         = "github.com/elefevre/golang-mock-tools"
	defaultDestination = "mockdouble_gen.go"
)

// Generate scans the packages matched by patterns for marker functions
// and writes the doubles they describe, one file per destination.
func Generate(ctx context.Context, wd string, patterns []string) error {
	pkgs, err := loadPackages(ctx, wd, patterns)
	if err != nil {
		return fmt.Errorf("cannot load packages: %v", err)
	}

	for _, pkg := range pkgs {
		if _, ok := pkg.Imports[markerPath]; !ok {
			continue
		}

		p := newParser(pkg)

		emitters, err := p.Parse()
		if err != nil {
			return fmt.Errorf("package %q: %v", pkg.PkgPath, err)
		}

		for _, e := range emitters {
			err = e.Emit()
			if err != nil {
				return fmt.Errorf("package %q: cannot generate doubles: %v", pkg.PkgPath, err)
			}
		}
	}

	return nil
}

// GenerateInterface generates a single double named name into destination,
// implementing the interfaces matched by the
// {package-path}.{InterfaceName} patterns. The double is generated into
// the package rooted at wd.
func GenerateInterface(ctx context.Context, wd string, name string, destination string, interfacePatterns []string) error {
	if name == "" {
		return errors.New("cannot generate double: name must not be empty")
	}
	if destination == "" {
		return errors.New("cannot generate double: destination must not be empty")
	}
	if filepath.Ext(destination) != ".go" {
		return fmt.Errorf("cannot generate double: %q is not a go file", destination)
	}
	if len(interfacePatterns) == 0 {
		return errors.New("cannot generate double: at least one interface pattern is required")
	}

	targets := map[string][]string{}
	for _, pattern := range interfacePatterns {
		idx := strings.LastIndex(pattern, ".")
		if idx == -1 || pattern[:idx] == "" || pattern[idx+1:] == "" {
			errorMessage := "invalid interface pattern:"
			errorMessage += fmt.Sprintf("\n\texpected interface pattern {package-path}.{interface-name}: actual %s", pattern)

			return errors.New(errorMessage)
		}

		pkgPath, interfaceName := pattern[:idx], pattern[idx+1:]
		targets[pkgPath] = append(targets[pkgPath], interfaceName)
	}

	outPkgs, err := loadPackages(ctx, wd, []string{"."})
	if err != nil {
		return fmt.Errorf("cannot load destination package: %v", err)
	}
	if len(outPkgs) != 1 {
		return fmt.Errorf("cannot load destination package: pattern \".\" matched %d packages", len(outPkgs))
	}
	out := outPkgs[0]

	patterns := make([]string, 0, len(targets))
	for pkgPath := range targets {
		patterns = append(patterns, pkgPath)
	}

	pkgs, err := loadPackages(ctx, wd, patterns)
	if err != nil {
		return fmt.Errorf("cannot load packages: %v", err)
	}

	var interfaces []types.Type
	for _, pkg := range pkgs {
		interfaceNames := targets[pkg.PkgPath]
		if len(interfaceNames) == 0 {
			continue
		}

		f := newInterfaceFinder(pkg, interfaceNames)
		for _, syntax := range pkg.Syntax {
			ast.Walk(f, syntax)
		}

		for _, interfaceName := range interfaceNames {
			t, ok := f.result[interfaceName]
			if !ok {
				return fmt.Errorf("package %q: cannot find interface: %s", pkg.PkgPath, interfaceName)
			}

			err = validateInterface(t.Underlying().(*types.Interface), out.PkgPath != pkg.PkgPath)
			if err != nil {
				return fmt.Errorf("package %q: invalid interface: %v", pkg.PkgPath, err)
			}

			interfaces = append(interfaces, t)
		}

		delete(targets, pkg.PkgPath)
	}
	if len(targets) > 0 {
		missing := make([]string, 0, len(targets))
		for pkgPath := range targets {
			missing = append(missing, pkgPath)
		}
		sort.Strings(missing)

		return fmt.Errorf("cannot find packages: %s", strings.Join(missing, ", "))
	}

	e := newEmitter(out, filepath.Join(wd, destination))

	err = e.addDouble(name, "", interfaces)
	if err != nil {
		return err
	}

	return e.Emit()
}
