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
	"net"
	"strconv"
	"time"
)

// reportDialTimeout bounds the controller connection attempt.
const reportDialTimeout = 5 * time.Second

// DialFn is the dialer used to reach the harness controller. Tests may
// override it.
var DialFn = func(addr string) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, reportDialTimeout)
}

// reportVerdict sends the verdict to the harness controller as a single JSON
// document over TCP.
func reportVerdict(ip string, port int, result any) error {
	conn, err := DialFn(net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	defer conn.Close()
	return json.NewEncoder(conn).Encode(result)
}
