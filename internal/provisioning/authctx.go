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

// AuthorizationCtx is the mutable bag shared between RegisterStep and
// StatusStep. Register populates it with whatever credential the service
// handed back; every subsequent Status call authenticates with it. It is
// owned exclusively by the driver and passed by reference into each step;
// the driver's one-step-at-a-time discipline is what makes it safe without
// its own locking.
type AuthorizationCtx struct {
	// SASToken is the shared-access-signature token produced during
	// registration, if any.
	SASToken string

	// DerivedKey is provider-specific key material derived while
	// authenticating (e.g. a symmetric-key HMAC key), if any.
	DerivedKey []byte
}

// NewAuthorizationCtx returns an empty AuthorizationCtx, ready to be
// threaded through a single run()'s Register and Status calls.
func NewAuthorizationCtx() *AuthorizationCtx {
	return &AuthorizationCtx{}
}

// SetSASToken records the token a step obtained from the service.
func (a *AuthorizationCtx) SetSASToken(token string) {
	a.SASToken = token
}

// SetDerivedKey records provider-derived key material from a step.
func (a *AuthorizationCtx) SetDerivedKey(key []byte) {
	a.DerivedKey = key
}
