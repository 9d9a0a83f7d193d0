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

import (
	"context"
	"sync"
	"time"
)

// fakeTransport is a hand-written TransportContract test double. Each
// Status call is served from statusResponses in order; the last entry is
// reused once exhausted.
type fakeTransport struct {
	mu sync.Mutex

	openErr  error
	closeErr error

	retryHint time.Duration

	registerResp  *RegistrationOperationStatus
	registerErr   error
	registerDelay time.Duration

	statusResponses []*RegistrationOperationStatus
	statusErrs      []error
	statusDelay     time.Duration
	statusIndex     int

	openCalls     int
	closeCalls    int
	registerCalls int
	statusCalls   int
}

func (f *fakeTransport) Open(ctx context.Context, req RequestData) error {
	f.mu.Lock()
	f.openCalls++
	f.mu.Unlock()
	return f.openErr
}

func (f *fakeTransport) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	return f.closeErr
}

func (f *fakeTransport) RetryHint() time.Duration {
	return f.retryHint
}

func (f *fakeTransport) Register(ctx context.Context, authCtx *AuthorizationCtx, payload []byte) (*RegistrationOperationStatus, error) {
	f.mu.Lock()
	f.registerCalls++
	f.mu.Unlock()

	if f.registerDelay > 0 {
		// Sleeps past any caller deadline unconditionally so a timeout test
		// deterministically observes the executor's own deadline firing,
		// rather than racing two selects on the same context.
		time.Sleep(f.registerDelay)
	}

	authCtx.SetSASToken("fake-sas-token")
	return f.registerResp, f.registerErr
}

func (f *fakeTransport) QueryStatus(ctx context.Context, authCtx *AuthorizationCtx, operationID string) (*RegistrationOperationStatus, error) {
	f.mu.Lock()
	idx := f.statusIndex
	if f.statusIndex < len(f.statusResponses)-1 {
		f.statusIndex++
	}
	f.statusCalls++
	f.mu.Unlock()

	if f.statusDelay > 0 {
		time.Sleep(f.statusDelay)
	}

	var resp *RegistrationOperationStatus
	var err error
	if idx < len(f.statusResponses) {
		resp = f.statusResponses[idx]
	}
	if idx < len(f.statusErrs) {
		err = f.statusErrs[idx]
	}
	return resp, err
}

func (f *fakeTransport) counts() (open, close, register, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openCalls, f.closeCalls, f.registerCalls, f.statusCalls
}

// fakeSecurityProvider is a hand-written SecurityProvider test double.
// It does not implement TPMActivator itself; its activate hook and
// activation counters are used by fakeTPMSecurityProvider, which embeds it
// and adds that capability.
type fakeSecurityProvider struct {
	registrationID string
	sslContext     any
	isX509         bool

	activate       func(ctx context.Context, key []byte) error
	activateCalls  int
	activateKey    []byte
	activateMu     sync.Mutex
}

func (f *fakeSecurityProvider) RegistrationID() string { return f.registrationID }
func (f *fakeSecurityProvider) SSLContext() any        { return f.sslContext }
func (f *fakeSecurityProvider) IsX509() bool           { return f.isX509 }

// fakeTPMSecurityProvider additionally implements TPMActivator.
type fakeTPMSecurityProvider struct {
	fakeSecurityProvider
}

func (f *fakeTPMSecurityProvider) ActivateIdentityKey(ctx context.Context, key []byte) error {
	f.activateMu.Lock()
	f.activateCalls++
	f.activateKey = key
	f.activateMu.Unlock()
	if f.activate != nil {
		return f.activate(ctx, key)
	}
	return nil
}
