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

package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/notbaekjun/grader/checker"
	"github.com/notbaekjun/grader/env"
	"github.com/notbaekjun/grader/runner"
)

// DefaultFs can be set by tests to use an in-memory filesystem. If nil,
// the commands will use the real OS filesystem.
var DefaultFs afero.Fs

// NewRunnerFn builds the execution-contract implementation the check command
// hands to the checker. Tests may override this to inject a stub runner.
var NewRunnerFn = func(vfs afero.Fs, e *env.Env) checker.Runner {
	return runner.NewLocal(vfs, e)
}

// Format selects how the verdict is written to stdout.
type Format enumflag.Flag

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// FormatIds maps Format values to their flag spellings.
var FormatIds = map[Format][]string{
	FormatText: {"text"},
	FormatJSON: {"json"},
	FormatYAML: {"yaml"},
}

// NewCheckCmd returns the check command: run one testcase's candidate
// executable and print (and optionally report) the verdict.
func NewCheckCmd() *cobra.Command {
	var (
		port    int
		timeout int
		target  string
		ipAddr  string
		cfgPath string
		format  = FormatText
	)

	cmd := &cobra.Command{
		Use:   "check [flags] [-- args...]",
		Short: "Judge one testcase and emit its verdict",
		Long: `Check runs the candidate executable of one testcase jail, compares its
console output and produced files against the expected artifacts, and emits
a structured verdict. When --ipaddr is given the verdict is also reported to
the harness controller over TCP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vfs := DefaultFs
			if vfs == nil {
				vfs = afero.NewOsFs()
			}

			e := env.Default()
			if cfgPath != "" {
				loaded, err := env.Load(vfs, cfgPath)
				if err != nil {
					return err
				}
				e = loaded
			}
			if cmd.Flags().Changed("port") {
				e.Port = port
			}
			if cmd.Flags().Changed("timeout") {
				e.TimeoutSec = timeout
			}
			if err := e.Validate(); err != nil {
				return err
			}

			return runCheck(cmd.OutOrStdout(), vfs, e, target, args, ipAddr, format)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port number for inter-module communication")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Execution timeout in seconds")
	cmd.Flags().StringVarP(&target, "exec", "e", "", "Path to executable inside the jail")
	cmd.Flags().StringVarP(&ipAddr, "ipaddr", "i", "", "IP address of the harness controller to report the verdict to")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a runner environment config file")
	cmd.Flags().VarP(
		enumflag.New(&format, "format", FormatIds, enumflag.EnumCaseInsensitive),
		"format", "f", "Verdict output format; 'text', 'json' or 'yaml'")
	_ = cmd.MarkFlagRequired("exec")

	return cmd
}

func runCheck(out io.Writer, vfs afero.Fs, e *env.Env, target string, args []string, ipAddr string, format Format) error {
	chk := checker.New(vfs, e, NewRunnerFn(vfs, e), target, args)

	runRes, err := chk.Run(context.Background(), e.Timeout())
	if err != nil {
		// execution failures still yield a verdict with the internal
		// status; only aggregation failures abort
		log.Printf("execution of %s failed: %v", chk.BuildRunCmd(), err)
	} else {
		log.Printf("ran %s: status=%s exit=%d cpu=%s",
			chk.BuildRunCmd(), runRes.Status, runRes.ExitCode, runRes.CPUTime.Round(time.Millisecond))
	}

	result, err := chk.Collect()
	if err != nil {
		return fmt.Errorf("failed to judge testcase: %w", err)
	}

	if err := renderResult(out, result, format); err != nil {
		return err
	}
	if ipAddr != "" {
		if err := reportVerdict(ipAddr, e.Port, result); err != nil {
			return fmt.Errorf("failed to report verdict to %s:%d: %w", ipAddr, e.Port, err)
		}
	}
	return nil
}
