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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/notbaekjun/grader/checker"
)

func renderResult(w io.Writer, result *checker.Result, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, result)
	}
}

// renderText writes a human-oriented summary. Map keys are sorted so that
// identical verdicts always render identically.
func renderText(w io.Writer, result *checker.Result) error {
	if _, err := fmt.Fprintf(w, "status: %s\n", result.Status); err != nil {
		return err
	}

	channels := maps.Keys(result.Console)
	sort.Strings(channels)
	for _, ch := range channels {
		if err := renderOutcome(w, "console/"+ch, result.Console[ch]); err != nil {
			return err
		}
	}

	paths := maps.Keys(result.File)
	sort.Strings(paths)
	for _, path := range paths {
		if err := renderOutcome(w, "file/"+path, result.File[path]); err != nil {
			return err
		}
	}
	return nil
}

func renderOutcome(w io.Writer, label string, outcome checker.Outcome) error {
	badge := statusBadge(outcome.Status)
	if outcome.Kind == checker.KindPerms && outcome.Status == checker.StatusDifferent {
		_, err := fmt.Fprintf(w, "%s %s perm-diff=%04o\n", badge, label, uint32(outcome.PermDiff))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", badge, label); err != nil {
		return err
	}
	if outcome.Diff != "" {
		for _, line := range strings.Split(strings.TrimRight(outcome.Diff, "\n"), "\n") {
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func statusBadge(s checker.Status) string {
	switch s {
	case checker.StatusIdentical:
		return "[OK]"
	case checker.StatusDifferent:
		return "[DIFF]"
	default:
		return "[ERR]"
	}
}
