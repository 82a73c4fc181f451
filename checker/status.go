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

import "io/fs"

// Status is the outcome of a single artifact comparison. The numeric values
// are wire-compatible with the exit codes of diff(1): 0 identical, 1
// different, 2 trouble.
type Status int

const (
	// StatusIdentical means the expected and actual artifacts match.
	StatusIdentical Status = iota
	// StatusDifferent means both artifacts exist but their content or
	// permission bits differ.
	StatusDifferent
	// StatusError means the comparison could not be carried out: a missing
	// artifact, a type mismatch, or an I/O failure. It is never used for a
	// plain content mismatch.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdentical:
		return "identical"
	case StatusDifferent:
		return "different"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind tells which payload field of an Outcome is meaningful.
type Kind int

const (
	// KindContent marks an Outcome produced by file content comparison;
	// the payload is Diff.
	KindContent Kind = iota
	// KindPerms marks an Outcome produced by directory permission
	// comparison; the payload is PermDiff.
	KindPerms
)

func (k Kind) String() string {
	if k == KindPerms {
		return "perms"
	}
	return "content"
}

// Outcome is one comparison result: a tri-state status plus a payload whose
// interpretation is selected by Kind. Content comparisons carry a textual
// diff; permission comparisons carry the xor of the two permission masks.
type Outcome struct {
	Status Status `json:"status" yaml:"status"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	// Diff is the unified diff between expected and actual content. Empty
	// when the files are identical or the comparison errored.
	Diff string `json:"diff,omitempty" yaml:"diff,omitempty"`
	// PermDiff is the xor of the expected and actual permission bits; the
	// set bits pinpoint exactly which permissions differ. Zero when the
	// permissions are identical or the comparison errored.
	PermDiff fs.FileMode `json:"perm_diff,omitempty" yaml:"perm_diff,omitempty"`
}

func contentOutcome(status Status, diff string) Outcome {
	return Outcome{Status: status, Kind: KindContent, Diff: diff}
}

func permsOutcome(status Status, mask fs.FileMode) Outcome {
	return Outcome{Status: status, Kind: KindPerms, PermDiff: mask}
}

// Result is the full verdict for one testcase: one Outcome per console
// channel, one Outcome per expected file-tree entry keyed by its relative
// POSIX path, and the execution status reported by the sandbox runner. A
// Result is built fresh for every evaluation and is not mutated afterwards.
type Result struct {
	Console map[string]Outcome `json:"console" yaml:"console"`
	File    map[string]Outcome `json:"file" yaml:"file"`
	Status  ExecStatus         `json:"status" yaml:"status"`
}
