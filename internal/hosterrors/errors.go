// Copyright 2025 The Rivaas Authors
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

package hosterrors

import "net/http"

// Taxonomy constants for the host's own errors, used as Coder.Code()
// values and for StatusResolver dispatch.
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodePluginLoad    = "PLUGIN_LOAD_ERROR"
	CodePluginPanic   = "PLUGIN_PANIC"
	CodeGuardRejected = "GUARD_REJECTED"
	CodeReloadFailed  = "RELOAD_FAILED"
	CodeNotFound      = "NOT_FOUND"
)

// Tagged is a host error carrying an explicit status and code.
type Tagged struct {
	Status  int
	code    string
	Message string
}

func (t *Tagged) Error() string { return t.Message }
func (t *Tagged) Code() string  { return t.code }

// NewTagged builds a Tagged error.
func NewTagged(status int, code, message string) *Tagged {
	return &Tagged{Status: status, code: code, Message: message}
}

// ResolveStatus is the StatusResolver used by the host's Simple
// formatter: Tagged errors carry their own status, everything else is
// a 500.
func ResolveStatus(err error) int {
	if t, ok := err.(*Tagged); ok {
		return t.Status
	}
	return http.StatusInternalServerError
}
