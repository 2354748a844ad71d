// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"keebi-cli/internal/issue"
	"keebi-cli/pkg/platform"

	"mvdan.cc/sh/v3/syntax"
)

// ScriptPath returns dir/name.ext after checking that name is a plain script name.
func ScriptPath(dir, name, ext string) (string, error) {
	if err := platform.ValidateScriptName(name); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("resolve script").
			WithResource(name).
			WithSuggestion("Script names are file names without the extension, e.g. 'login' for login." + ext).
			Wrap(err).
			BuildError()
	}
	return filepath.Join(dir, name+"."+ext), nil
}

// Load reads a script file in full.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("load script").
		WithResource(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithIssue(issue.ScriptNotFoundId).
			WithSuggestion("Run 'keebi list' to see available scripts").
			WithSuggestion("Use --scripts-dir to look in another directory")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithSuggestion("Check the file permissions")
	}
	return nil, ctx.Wrap(err).BuildError()
}

// Compile parses script source. name is used in error positions.
func Compile(src []byte, name string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	return prog, nil
}

// List returns the names of the scripts in dir with extension ext, sorted.
// A missing directory yields an ActionableError.
func List(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("list scripts").
			WithResource(dir)
		if errors.Is(err, fs.ErrNotExist) {
			ctx.WithIssue(issue.ScriptsDirNotFoundId).
				WithSuggestion("Run 'keebi config init' to create the config directory")
		}
		return nil, ctx.Wrap(err).BuildError()
	}

	suffix := "." + ext
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), suffix)
		if !ok || platform.ValidateScriptName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// describe renders a file position for log output.
func describe(prog *syntax.File) string {
	return fmt.Sprintf("%s (%d statements)", prog.Name, len(prog.Stmts))
}
