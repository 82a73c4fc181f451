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
	"bytes"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notbaekjun/grader/checker"
	"github.com/notbaekjun/grader/env"
)

// echoRunner fakes an execution by writing a fixed stdout capture into the
// output root, the way a real runner leaves the jail behind.
type echoRunner struct {
	vfs    afero.Fs
	e      *env.Env
	stdout string
	status checker.ExecStatus
}

func (r *echoRunner) Run(_ context.Context, _ string, _ []string, _ time.Duration) (checker.RunResult, error) {
	if err := r.vfs.MkdirAll(r.e.OutputDir, 0o755); err != nil {
		return checker.RunResult{Status: checker.ExecInternal}, err
	}
	path := filepath.Join(r.e.OutputDir, r.e.Stdout)
	if err := afero.WriteFile(r.vfs, path, []byte(r.stdout), 0o644); err != nil {
		return checker.RunResult{Status: checker.ExecInternal}, err
	}
	return checker.RunResult{Status: r.status, Stdout: []byte(r.stdout)}, nil
}

func setupCheckFixture(t *testing.T, expectedStdout string) afero.Fs {
	t.Helper()
	vfs := afero.NewMemMapFs()
	e := env.Default()
	require.NoError(t, vfs.MkdirAll(e.ExpectedConsole, 0o755))
	require.NoError(t, vfs.MkdirAll(e.ExpectedFile, 0o755))
	require.NoError(t, afero.WriteFile(vfs, e.ExpectedConsole+"/stdout", []byte(expectedStdout), 0o644))

	origFs, origRunner := DefaultFs, NewRunnerFn
	t.Cleanup(func() {
		DefaultFs, NewRunnerFn = origFs, origRunner
	})
	DefaultFs = vfs
	return vfs
}

func runCheckCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCheckCommandIdenticalStdout(t *testing.T) {
	vfs := setupCheckFixture(t, "5\n")
	NewRunnerFn = func(_ afero.Fs, e *env.Env) checker.Runner {
		return &echoRunner{vfs: vfs, e: e, stdout: "5\n", status: checker.ExecOK}
	}

	out, err := runCheckCmd(t, "check", "-e", "/jail/prog", "-f", "json")
	require.NoError(t, err)

	var decoded checker.Result
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, checker.ExecOK, decoded.Status)
	require.Contains(t, decoded.Console, "stdout")
	assert.Equal(t, checker.StatusIdentical, decoded.Console["stdout"].Status)
	assert.Empty(t, decoded.File)
}

func TestCheckCommandDifferentStdout(t *testing.T) {
	vfs := setupCheckFixture(t, "5\n")
	NewRunnerFn = func(_ afero.Fs, e *env.Env) checker.Runner {
		return &echoRunner{vfs: vfs, e: e, stdout: "6\n", status: checker.ExecOK}
	}

	out, err := runCheckCmd(t, "check", "-e", "/jail/prog")
	require.NoError(t, err)
	assert.Contains(t, out, "[DIFF] console/stdout")
	assert.Contains(t, out, "-5")
	assert.Contains(t, out, "+6")
}

func TestCheckCommandRequiresExec(t *testing.T) {
	setupCheckFixture(t, "5\n")
	_, err := runCheckCmd(t, "check")
	assert.Error(t, err)
}

func TestCheckCommandUnknownConsoleFileFails(t *testing.T) {
	vfs := setupCheckFixture(t, "5\n")
	require.NoError(t, afero.WriteFile(vfs, env.Default().ExpectedConsole+"/bogus", []byte("?"), 0o644))
	NewRunnerFn = func(_ afero.Fs, e *env.Env) checker.Runner {
		return &echoRunner{vfs: vfs, e: e, stdout: "5\n", status: checker.ExecOK}
	}

	_, err := runCheckCmd(t, "check", "-e", "/jail/prog")
	assert.Error(t, err)
}

func TestCheckCommandConfigOverride(t *testing.T) {
	vfs := setupCheckFixture(t, "5\n")
	// relocate the jail through a config file and mirror the fixture there
	cfg := "expected_console: /tc9/expected/console\noutput_dir: /tc9/out\nexpected_file: /tc9/expected/file\nhome_dir: /tc9/home\n"
	require.NoError(t, afero.WriteFile(vfs, "/tc9/env.yml", []byte(cfg), 0o644))
	require.NoError(t, vfs.MkdirAll("/tc9/expected/console", 0o755))
	require.NoError(t, vfs.MkdirAll("/tc9/expected/file", 0o755))
	require.NoError(t, afero.WriteFile(vfs, "/tc9/expected/console/stdout", []byte("ok\n"), 0o644))
	NewRunnerFn = func(_ afero.Fs, e *env.Env) checker.Runner {
		return &echoRunner{vfs: vfs, e: e, stdout: "ok\n", status: checker.ExecOK}
	}

	out, err := runCheckCmd(t, "check", "-e", "/jail/prog", "-c", "/tc9/env.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] console/stdout")
}

func TestCheckCommandReportsVerdict(t *testing.T) {
	vfs := setupCheckFixture(t, "5\n")
	NewRunnerFn = func(_ afero.Fs, e *env.Env) checker.Runner {
		return &echoRunner{vfs: vfs, e: e, stdout: "5\n", status: checker.ExecOK}
	}

	received := make(chan struct{})
	origDial := DialFn
	t.Cleanup(func() { DialFn = origDial })
	DialFn = func(addr string) (net.Conn, error) {
		assert.Equal(t, "127.0.0.1:7777", addr)
		client, server := net.Pipe()
		go func() {
			defer server.Close()
			var doc map[string]any
			if json.NewDecoder(server).Decode(&doc) == nil {
				close(received)
			}
		}()
		return client, nil
	}

	_, err := runCheckCmd(t, "check", "-e", "/jail/prog", "-i", "127.0.0.1")
	require.NoError(t, err)

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("verdict was never reported to the controller")
	}
}
