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

// Package checker implements the verdict-computation core of the notBaekjun
// grading harness: it discovers which expected/actual artifact pairs of a
// testcase jail must be compared, applies content or permission comparison
// per artifact kind, and assembles one structured Result per testcase.
// Executing the candidate program is delegated to a Runner; the checker only
// reads the artifacts the run left behind.
package checker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"

	"github.com/notbaekjun/grader/env"
)

// Checker evaluates a single testcase. It owns its artifact roots for the
// duration of one evaluation and keeps no state across testcases, so callers
// may evaluate multiple testcases concurrently as long as each Checker uses
// disjoint output and home roots.
type Checker struct {
	Fs     afero.Fs
	Env    *env.Env
	Runner Runner
	// Target is the path to the candidate executable inside the jail.
	Target string
	// Args are the arguments passed to the candidate executable.
	Args []string

	status ExecStatus
}

// New returns a Checker for one testcase jail.
func New(vfs afero.Fs, e *env.Env, runner Runner, target string, args []string) *Checker {
	return &Checker{
		Fs:     vfs,
		Env:    e,
		Runner: runner,
		Target: target,
		Args:   args,
	}
}

// BuildRunCmd returns the shell command line that executes the candidate
// program, with the target and every argument quoted for the jail's shell.
func (c *Checker) BuildRunCmd() string {
	words := append([]string{c.Target}, c.Args...)
	return shellquote.Join(words...)
}

// Run executes the candidate program through the configured Runner and
// records its execution status for the verdict. The Runner is responsible
// for enforcing the timeout and for writing the captured console streams and
// produced files where Collect expects them.
func (c *Checker) Run(ctx context.Context, timeout time.Duration) (RunResult, error) {
	if c.Runner == nil {
		c.status = ExecInternal
		return RunResult{Status: ExecInternal}, errors.New("no runner configured")
	}
	res, err := c.Runner.Run(ctx, c.Target, c.Args, timeout)
	if err != nil && res.Status == ExecUnknown {
		res.Status = ExecInternal
	}
	c.status = res.Status
	return res, err
}

// Collect assembles the testcase verdict. Every console pair except stdin
// and every entry under the expected-file root produces exactly one Outcome;
// comparison failures local to one pair are recorded in that pair's Outcome
// and never abort the rest. Collect returns an error, and no Result, only
// for contract violations: an unrecognized console file name or a missing
// expected root.
func (c *Checker) Collect() (*Result, error) {
	res := &Result{
		Console: make(map[string]Outcome),
		File:    make(map[string]Outcome),
		Status:  c.status,
	}
	resolver := &Resolver{Fs: c.Fs, Env: c.Env}

	consolePairs, err := resolver.ConsolePairs()
	if err != nil {
		return nil, err
	}
	for _, pair := range consolePairs {
		switch filepath.Base(pair.Expected) {
		case c.Env.Stdout:
			res.Console["stdout"] = c.Diff(pair.Expected, pair.Actual)
		case c.Env.Stderr:
			res.Console["stderr"] = c.Diff(pair.Expected, pair.Actual)
		default:
			return nil, fmt.Errorf("unexpected console file %q under %s", filepath.Base(pair.Expected), c.Env.ExpectedConsole)
		}
	}

	filePairs, err := resolver.FilePairs()
	if err != nil {
		return nil, err
	}
	for _, pair := range filePairs {
		key, err := resolver.RelKey(pair.Expected)
		if err != nil {
			return nil, err
		}
		info, err := c.lstat(pair.Expected)
		switch {
		case err != nil:
			res.File[key] = contentOutcome(StatusError, "")
		case info.Mode().IsRegular():
			res.File[key] = c.Diff(pair.Expected, pair.Actual)
		case info.IsDir():
			res.File[key] = c.DiffDir(pair.Expected, pair.Actual)
		default:
			// symlinks, devices and the like are outside the judged
			// artifact kinds
			res.File[key] = contentOutcome(StatusError, "")
		}
	}

	return res, nil
}

// SetStatus overrides the recorded execution status. It exists for callers
// that run the candidate program out of process and only hand the checker a
// finished jail to judge.
func (c *Checker) SetStatus(status ExecStatus) {
	c.status = status
}
