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

import "context"

// SecurityProvider is the external security collaborator the DPSM
// consumes. Key material, TPM operations, X.509 chains, and SAS token
// derivation are this provider's concern, not the DPSM's.
type SecurityProvider interface {
	// RegistrationID returns the device's registration id.
	RegistrationID() string

	// SSLContext returns opaque TLS material for the transport to use.
	SSLContext() any

	// IsX509 reports whether this provider carries an X.509 certificate
	// chain; when true, RequestData.IsX509 is set for transport.Open.
	IsX509() bool
}

// TPMActivator is an optional capability a TPM-based SecurityProvider
// implements. The DPSM calls it exactly once, upon ASSIGNED, with the
// base64-decoded activation key.
type TPMActivator interface {
	ActivateIdentityKey(ctx context.Context, key []byte) error
}

// asTPMActivator reports whether provider additionally accepts a TPM
// activation key.
func asTPMActivator(provider SecurityProvider) (TPMActivator, bool) {
	activator, ok := provider.(TPMActivator)
	return activator, ok
}
