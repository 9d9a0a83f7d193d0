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

// Package symmetrickey provides a provisioning.SecurityProvider for
// enrollments authenticated with a pre-shared symmetric key.
package symmetrickey

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"
)

// Provider derives a SAS token from a base64-encoded symmetric key, the
// way a DPS individual or group enrollment authenticates.
type Provider struct {
	registrationID string
	key            []byte
}

// New decodes keyBase64 and returns a Provider for registrationID.
// Returns an error if keyBase64 is not valid base64.
func New(registrationID, keyBase64 string) (*Provider, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("symmetrickey: invalid key: %w", err)
	}
	return &Provider{registrationID: registrationID, key: key}, nil
}

func (p *Provider) RegistrationID() string { return p.registrationID }

// SSLContext is nil; this provider authenticates via a SAS token carried
// out-of-band by the transport, not via the TLS handshake.
func (p *Provider) SSLContext() any { return nil }

func (p *Provider) IsX509() bool { return false }

// SASToken computes a DPS-style SAS token scoped to resourceURI, valid
// until expiry.
func (p *Provider) SASToken(resourceURI string, expiry time.Time) string {
	encodedURI := url.QueryEscape(resourceURI)
	expirySeconds := expiry.Unix()
	toSign := fmt.Sprintf("%s\n%d", encodedURI, expirySeconds)

	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(toSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SharedAccessSignature sr=%s&sig=%s&se=%d",
		encodedURI, url.QueryEscape(signature), expirySeconds)
}
