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

// Package runner provides a local, non-isolated implementation of the
// checker's execution contract: it runs the candidate program as a plain
// subprocess with a wall-clock timeout, accounts its CPU time, and captures
// the console streams into the output root where the checker looks for
// them. It deliberately performs no chroot or resource-limit isolation;
// jailed execution is a separate component of the harness.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"

	"github.com/notbaekjun/grader/checker"
	"github.com/notbaekjun/grader/env"
)

// Local runs candidate programs directly on the host.
type Local struct {
	Fs  afero.Fs
	Env *env.Env
}

// NewLocal returns a Local runner writing its captures through vfs.
func NewLocal(vfs afero.Fs, e *env.Env) *Local {
	return &Local{Fs: vfs, Env: e}
}

// Run executes target with args, feeding it the expected stdin file when one
// exists and capturing stdout/stderr into the output root. A deadline
// overrun is reported as ExecTimeout in the result, not as an error; only
// failures of the runner itself produce a non-nil error.
func (l *Local) Run(ctx context.Context, target string, args []string, timeout time.Duration) (checker.RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, target, args...)
	cmd.Dir = l.Env.HomeDir

	stdinPath := filepath.Join(l.Env.ExpectedConsole, l.Env.Stdin)
	if data, err := afero.ReadFile(l.Fs, stdinPath); err == nil {
		cmd.Stdin = bytes.NewReader(data)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	res := checker.RunResult{
		ExitCode: -1,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}
	if state := cmd.ProcessState; state != nil {
		res.CPUTime = state.UserTime() + state.SystemTime()
		res.ExitCode = state.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Status = checker.ExecTimeout
	case runErr == nil:
		res.Status = checker.ExecOK
	case errors.As(runErr, &exitErr):
		res.Status = checker.ExecRuntimeError
	default:
		// the program never started; nothing to capture or judge
		res.Status = checker.ExecInternal
		return res, runErr
	}

	if err := l.capture(l.Env.Stdout, res.Stdout); err != nil {
		res.Status = checker.ExecInternal
		return res, err
	}
	if err := l.capture(l.Env.Stderr, res.Stderr); err != nil {
		res.Status = checker.ExecInternal
		return res, err
	}
	return res, nil
}

// RunCommand splits a shell-quoted command line, as produced by
// Checker.BuildRunCmd, and runs it.
func (l *Local) RunCommand(ctx context.Context, cmdline string, timeout time.Duration) (checker.RunResult, error) {
	words, err := shellquote.Split(cmdline)
	if err != nil {
		return checker.RunResult{ExitCode: -1, Status: checker.ExecInternal}, err
	}
	if len(words) == 0 {
		return checker.RunResult{ExitCode: -1, Status: checker.ExecInternal}, errors.New("empty command line")
	}
	return l.Run(ctx, words[0], words[1:], timeout)
}

func (l *Local) capture(name string, data []byte) error {
	if err := l.Fs.MkdirAll(l.Env.OutputDir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(l.Fs, filepath.Join(l.Env.OutputDir, name), data, 0o644)
}
