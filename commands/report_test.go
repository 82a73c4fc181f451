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
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportVerdict(t *testing.T) {
	client, server := net.Pipe()
	orig := DialFn
	DialFn = func(addr string) (net.Conn, error) {
		assert.Equal(t, "10.0.0.2:7777", addr)
		return client, nil
	}
	t.Cleanup(func() { DialFn = orig })

	received := make(chan map[string]any, 1)
	go func() {
		defer server.Close()
		var doc map[string]any
		if err := json.NewDecoder(server).Decode(&doc); err == nil {
			received <- doc
		}
	}()

	err := reportVerdict("10.0.0.2", 7777, sampleResult())
	require.NoError(t, err)

	doc := <-received
	assert.Contains(t, doc, "console")
	assert.Contains(t, doc, "file")
	assert.Contains(t, doc, "status")
}

func TestReportVerdictDialFailure(t *testing.T) {
	orig := DialFn
	DialFn = func(addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { DialFn = orig })

	err := reportVerdict("10.0.0.2", 7777, sampleResult())
	assert.Error(t, err)
}
