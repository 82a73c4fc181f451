// Copyright 2025 notBaekjun
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package checker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/notbaekjun/grader/env"
)

// Pair is one expected/actual artifact pair the checker must compare.
type Pair struct {
	Expected string
	Actual   string
}

// Resolver enumerates the artifact pairs of one testcase jail. It only ever
// lists the expected side; whether the actual side exists is a comparator
// concern.
type Resolver struct {
	Fs  afero.Fs
	Env *env.Env
}

// ConsolePairs lists the console streams to compare: every file directly
// under the expected-console root except the stdin file, paired with the
// same-named file under the output root. Iteration order carries no meaning;
// callers dispatch on the file name.
func (r *Resolver) ConsolePairs() ([]Pair, error) {
	entries, err := afero.ReadDir(r.Fs, r.Env.ExpectedConsole)
	if err != nil {
		return nil, fmt.Errorf("failed to list expected console root %s: %w", r.Env.ExpectedConsole, err)
	}

	var pairs []Pair
	for _, entry := range entries {
		if entry.Name() == r.Env.Stdin {
			// stdin is input to the program, never an output to judge
			continue
		}
		pairs = append(pairs, Pair{
			Expected: filepath.Join(r.Env.ExpectedConsole, entry.Name()),
			Actual:   filepath.Join(r.Env.OutputDir, entry.Name()),
		})
	}
	return pairs, nil
}

// FilePairs lists every entry under the expected-file root, at every depth,
// paired with the same relative path under the home root. Directories are
// enumerated as entries of their own; their permission bits are compared
// separately from their children.
func (r *Resolver) FilePairs() ([]Pair, error) {
	root := r.Env.ExpectedFile
	var pairs []Pair
	walk := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pairs = append(pairs, Pair{
			Expected: path,
			Actual:   filepath.Join(r.Env.HomeDir, rel),
		})
		return nil
	}
	if err := afero.Walk(r.Fs, root, walk); err != nil {
		return nil, fmt.Errorf("failed to walk expected file root %s: %w", root, err)
	}
	return pairs, nil
}

// RelKey returns the stable identifier for an expected file-tree entry: its
// path relative to the expected-file root, in POSIX form.
func (r *Resolver) RelKey(expected string) (string, error) {
	rel, err := filepath.Rel(r.Env.ExpectedFile, expected)
	if err != nil {
		return "", fmt.Errorf("entry %s is not under the expected file root: %w", expected, err)
	}
	return filepath.ToSlash(rel), nil
}
