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
	"io/fs"
	"path/filepath"
)

// permBits extracts the low 12 permission bits of a mode: the rwx triplets
// plus setuid, setgid and sticky, folded into their traditional octal
// positions (04000, 02000, 01000).
func permBits(mode fs.FileMode) fs.FileMode {
	bits := mode & fs.ModePerm
	if mode&fs.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		bits |= 0o1000
	}
	return bits
}

// DiffDir compares the permission bits of two directories and returns a
// perms Outcome. The payload is the xor of the two masks, so each set bit
// names one differing permission. Directory content is never inspected here;
// children surface as file-tree pairs of their own.
func (c *Checker) DiffDir(path1, path2 string) Outcome {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return permsOutcome(StatusError, 0)
	}

	info1, err1 := c.lstat(abs1)
	info2, err2 := c.lstat(abs2)
	if err1 != nil || err2 != nil || !info1.IsDir() || !info2.IsDir() {
		return permsOutcome(StatusError, 0)
	}

	perm1 := permBits(info1.Mode())
	perm2 := permBits(info2.Mode())
	if perm1 == perm2 {
		return permsOutcome(StatusIdentical, 0)
	}
	return permsOutcome(StatusDifferent, perm1^perm2)
}
