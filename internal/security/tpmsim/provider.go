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

// Package tpmsim provides an in-memory simulated TPM provisioning.
// SecurityProvider, for development and testing against DPS without real
// TPM hardware. It is not a cryptographically faithful TPM: endorsement
// and storage root keys are random bytes, not actual RSA/ECC keys.
package tpmsim

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
)

// Provider simulates a TPM-enrolled device's SecurityProvider and
// TPMActivator capability.
type Provider struct {
	registrationID  string
	endorsementKey  []byte
	storageRootKey  []byte

	mu            sync.Mutex
	activationKey []byte
}

// New generates a simulated endorsement key and storage root key for
// registrationID.
func New(registrationID string) (*Provider, error) {
	ek := make([]byte, 32)
	if _, err := rand.Read(ek); err != nil {
		return nil, fmt.Errorf("tpmsim: generating endorsement key: %w", err)
	}
	srk := make([]byte, 32)
	if _, err := rand.Read(srk); err != nil {
		return nil, fmt.Errorf("tpmsim: generating storage root key: %w", err)
	}
	return &Provider{registrationID: registrationID, endorsementKey: ek, storageRootKey: srk}, nil
}

func (p *Provider) RegistrationID() string { return p.registrationID }

// SSLContext is nil; TPM-attested enrollments authenticate via the
// endorsement/storage root key exchange, not a TLS client certificate.
func (p *Provider) SSLContext() any { return nil }

func (p *Provider) IsX509() bool { return false }

// EndorsementKeyBase64 returns the simulated EK, as DPS expects it in the
// TPM registration payload.
func (p *Provider) EndorsementKeyBase64() string {
	return base64.StdEncoding.EncodeToString(p.endorsementKey)
}

// StorageRootKeyBase64 returns the simulated SRK.
func (p *Provider) StorageRootKeyBase64() string {
	return base64.StdEncoding.EncodeToString(p.storageRootKey)
}

// ActivateIdentityKey implements provisioning.TPMActivator. The simulator
// just records the decoded key; a real TPM would seal it against the SRK
// via TPM2_ActivateCredential.
func (p *Provider) ActivateIdentityKey(ctx context.Context, key []byte) error {
	if len(key) == 0 {
		return dpserrors.NewSecurityProviderError("activateIdentityKey", fmt.Errorf("empty activation key"))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activationKey = append([]byte(nil), key...)
	return nil
}

// ActivatedKey returns the most recently activated key, or nil if none
// has been activated yet. Exposed for tests and diagnostics.
func (p *Provider) ActivatedKey() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.activationKey...)
}
