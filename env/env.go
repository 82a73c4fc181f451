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

// Package env holds the runner environment: the well-known artifact roots
// and file names a testcase jail is laid out with, plus the defaults for
// inter-module communication. It is passed explicitly into the checker so
// that evaluations are deterministic and can run in parallel over disjoint
// roots.
package env

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed default-env.yml
var defaultEnv []byte

// Env describes one testcase jail.
type Env struct {
	// ExpectedConsole is the directory holding the reference console
	// streams (stdin/stdout/stderr files).
	ExpectedConsole string `yaml:"expected_console"`
	// OutputDir is where the runner captures the program's actual console
	// streams, using the same file names.
	OutputDir string `yaml:"output_dir"`
	// ExpectedFile is the root of the reference file tree the program is
	// expected to produce under its working directory.
	ExpectedFile string `yaml:"expected_file"`
	// HomeDir is the program's working directory inside the jail.
	HomeDir string `yaml:"home_dir"`

	// Stdin, Stdout and Stderr are the console stream file names. The
	// stdin file is fed to the program and never compared.
	Stdin  string `yaml:"stdin_file"`
	Stdout string `yaml:"stdout_file"`
	Stderr string `yaml:"stderr_file"`

	// Port is the default port for reporting verdicts to the controller.
	Port int `yaml:"port"`
	// TimeoutSec is the default execution timeout in seconds.
	TimeoutSec int `yaml:"timeout"`
}

// Default returns the embedded default environment.
func Default() *Env {
	e, err := New(defaultEnv)
	if err != nil {
		// The embedded defaults are validated by tests; this cannot
		// happen at runtime.
		panic(fmt.Sprintf("embedded default env is invalid: %v", err))
	}
	return e
}

// New parses a yaml environment description. Fields left unset fall back to
// the embedded defaults.
func New(b []byte) (*Env, error) {
	var e Env
	if err := yaml.Unmarshal(defaultEnv, &e); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default env: %w", err)
	}
	if err := yaml.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("failed to parse env config: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Load reads an environment description from a file on vfs.
func Load(vfs afero.Fs, path string) (*Env, error) {
	b, err := afero.ReadFile(vfs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env config %s: %w", path, err)
	}
	return New(b)
}

// Validate checks that every root and file name is set and the defaults are
// usable.
func (e *Env) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"expected_console", e.ExpectedConsole},
		{"output_dir", e.OutputDir},
		{"expected_file", e.ExpectedFile},
		{"home_dir", e.HomeDir},
		{"stdin_file", e.Stdin},
		{"stdout_file", e.Stdout},
		{"stderr_file", e.Stderr},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("env config: %s must not be empty", f.name)
		}
	}
	if e.TimeoutSec <= 0 {
		return fmt.Errorf("env config: timeout must be positive, got %d", e.TimeoutSec)
	}
	if e.Port <= 0 || e.Port > 65535 {
		return fmt.Errorf("env config: port %d out of range", e.Port)
	}
	return nil
}

// Timeout returns the default execution timeout as a duration.
func (e *Env) Timeout() time.Duration {
	return time.Duration(e.TimeoutSec) * time.Second
}
