// Copyright 2025 Microsoft Corporation
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

// Package dpserrors defines the error taxonomy a DPSM run() can surface:
// construction-time argument errors, authentication failures,
// service-reported terminal failures, transport errors, security-provider
// errors, and per-step timeouts.
package dpserrors

import "fmt"

// InvalidArgumentError is raised synchronously at construction time when a
// required collaborator (transport, config, security provider, callback) is
// missing. It never reaches the registration callback.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func NewInvalidArgumentError(argument, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

// AuthenticationFailureError covers every flavor of "the service reply could
// not be trusted or understood": missing/unparseable status, missing
// operationId, missing hub/device on ASSIGNED, missing or undecodable TPM
// key.
type AuthenticationFailureError struct {
	Reason string
}

func NewAuthenticationFailureError(reason string) *AuthenticationFailureError {
	return &AuthenticationFailureError{Reason: reason}
}

func (e *AuthenticationFailureError) Error() string {
	return fmt.Sprintf("authentication failure: %s", e.Reason)
}

// HubError is the service-reported terminal failure for FAILED/DISABLED
// registrations: a message plus an optional machine-readable code.
type HubError struct {
	Message string
	Code    int
	HasCode bool
}

// NewHubError builds a HubError. code == 0 with hasCode == false means the
// service did not report an errorCode.
func NewHubError(message string, code int, hasCode bool) *HubError {
	return &HubError{Message: message, Code: code, HasCode: hasCode}
}

func (e *HubError) Error() string {
	if e.HasCode {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return e.Message
}

// TransportError wraps a failure surfaced from the TransportContract
// (open/close/request).
type TransportError struct {
	Op  string
	Err error
}

func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SecurityProviderError wraps a failure surfaced from the SecurityProvider,
// e.g. TPM activateIdentityKey.
type SecurityProviderError struct {
	Op  string
	Err error
}

func NewSecurityProviderError(op string, err error) *SecurityProviderError {
	return &SecurityProviderError{Op: op, Err: err}
}

func (e *SecurityProviderError) Error() string {
	return fmt.Sprintf("security provider error during %s: %v", e.Op, e.Err)
}

func (e *SecurityProviderError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a step (Register or Status) that exceeded its
// deadline.
type TimeoutError struct {
	Step string
}

func NewTimeoutError(step string) *TimeoutError {
	return &TimeoutError{Step: step}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s step timed out", e.Step)
}
