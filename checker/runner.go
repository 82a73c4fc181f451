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
	"context"
	"time"
)

// ExecStatus describes how the candidate program's execution ended. The
// checker treats it as opaque: it is attached to the Result verbatim and
// never reinterpreted. Timeout and resource-limit violations are distinct
// values so that the grading pipeline can tell them apart from an ordinary
// non-zero exit.
type ExecStatus int

const (
	// ExecUnknown is the zero value: no execution has been recorded yet.
	ExecUnknown ExecStatus = iota
	// ExecOK means the program ran to completion under the limits.
	ExecOK
	// ExecRuntimeError means the program exited abnormally (non-zero exit
	// or fatal signal) but within the limits.
	ExecRuntimeError
	// ExecTimeout means the wall-clock or CPU-time limit was exceeded.
	ExecTimeout
	// ExecResourceLimit means a resource limit other than time was hit
	// (memory, file size, process count).
	ExecResourceLimit
	// ExecInternal means the runner itself failed before or while starting
	// the program.
	ExecInternal
)

func (s ExecStatus) String() string {
	switch s {
	case ExecOK:
		return "ok"
	case ExecRuntimeError:
		return "runtime-error"
	case ExecTimeout:
		return "timeout"
	case ExecResourceLimit:
		return "resource-limit"
	case ExecInternal:
		return "internal-error"
	default:
		return "unknown"
	}
}

// RunResult is what a Runner reports after executing the candidate program.
type RunResult struct {
	// CPUTime is the user+system CPU time consumed by the program.
	CPUTime time.Duration
	// ExitCode is the program's exit code, or -1 if it was killed.
	ExitCode int
	// Status classifies how the run ended.
	Status ExecStatus
	// Stdout and Stderr hold the captured console output. The runner must
	// also have written them to the output root before returning, so that
	// console comparison can find them.
	Stdout []byte
	Stderr []byte
}

// Runner executes a candidate program under an isolated, resource-limited
// environment. Implementations must, before returning: write the captured
// stdout/stderr into the actual-console root and leave any files the program
// produced under the actual-file root. The checker only depends on this
// contract; it never executes anything itself.
type Runner interface {
	Run(ctx context.Context, target string, args []string, timeout time.Duration) (RunResult, error)
}
