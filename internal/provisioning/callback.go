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

package provisioning

// RegistrationCallback is invoked exactly once per run(), whether the
// attempt succeeded, failed, was disabled, or raised an internal error.
// regErr is nil on success.
type RegistrationCallback func(result *RegistrationResult, regErr error, userContext any)

// Config configures a single DPSM run.
type Config struct {
	// SecurityProvider produces the registration id and TLS material, and
	// (TPM variant) accepts the activation key. Required.
	SecurityProvider SecurityProvider

	// Callback is invoked exactly once when run() reaches a terminal
	// state. Required.
	Callback RegistrationCallback

	// UserContext is opaque data passed through to Callback unexamined.
	UserContext any

	// Payload is an optional registration payload forwarded to
	// transport.Open and transport.Register.
	Payload []byte

	// UniqueIdentifier is a stable identifier for this run, used as the
	// run_id log field and in the thread_name descriptor.
	UniqueIdentifier string

	// OnStatusTick, if set, is invoked after every parsed Register/Status
	// response, before the terminal check. Lets an embedder observe
	// intermediate polling states without mutable shared state.
	OnStatusTick func(ProvisioningStatus)
}
