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
	"bytes"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// Diff compares the content of two regular files and returns a content
// Outcome: identical with an empty diff, different with a unified diff, or
// error when either path is missing, is not a regular file, or cannot be
// read. Symlinks are not dereferenced when checking the type, so a link
// pointing outside the jail never passes as a regular file.
func (c *Checker) Diff(path1, path2 string) Outcome {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return contentOutcome(StatusError, "")
	}

	info1, err1 := c.lstat(abs1)
	info2, err2 := c.lstat(abs2)
	if err1 != nil || err2 != nil || !info1.Mode().IsRegular() || !info2.Mode().IsRegular() {
		return contentOutcome(StatusError, "")
	}

	a, err := afero.ReadFile(c.Fs, abs1)
	if err != nil {
		return contentOutcome(StatusError, "")
	}
	b, err := afero.ReadFile(c.Fs, abs2)
	if err != nil {
		return contentOutcome(StatusError, "")
	}

	if bytes.Equal(a, b) {
		return contentOutcome(StatusIdentical, "")
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: abs1,
		ToFile:   abs2,
		Context:  diffContext,
	})
	if err != nil {
		return contentOutcome(StatusError, "")
	}
	return contentOutcome(StatusDifferent, text)
}

// lstat stats a path without following a trailing symlink when the backing
// filesystem supports it. MemMapFs has no symlinks, so falling back to Stat
// there is equivalent.
func (c *Checker) lstat(path string) (os.FileInfo, error) {
	if lst, ok := c.Fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return c.Fs.Stat(path)
}
