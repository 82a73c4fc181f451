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
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the grader CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "grader",
		Short:        "notBaekjun testcase checker",
		Long:         "Compare a candidate program's execution artifacts against a reference answer set and produce a per-testcase verdict.",
		SilenceUsage: true,
	}
	root.AddCommand(NewCheckCmd())
	return root
}
