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
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
)

func newTestDPSM(t *testing.T, transport TransportContract, config *Config) *DPSM {
	t.Helper()
	d, err := New(transport, config)
	require.NoError(t, err)
	// Tests never wait out the real ceilings; shrink them so a stuck step
	// fails fast instead of hanging the suite.
	d.registerTimeout = 200 * time.Millisecond
	d.statusTimeout = 200 * time.Millisecond
	return d
}

func recordingCallback(resultPtr **RegistrationResult, errPtr *error, calls *int) RegistrationCallback {
	return func(result *RegistrationResult, regErr error, userContext any) {
		*calls++
		*resultPtr = result
		*errPtr = regErr
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	validConfig := &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         func(*RegistrationResult, error, any) {},
	}

	_, err := New(nil, validConfig)
	require.Error(t, err)
	assert.IsType(t, &dpserrors.InvalidArgumentError{}, err)

	_, err = New(&fakeTransport{}, nil)
	require.Error(t, err)
	assert.IsType(t, &dpserrors.InvalidArgumentError{}, err)

	_, err = New(&fakeTransport{}, &Config{Callback: func(*RegistrationResult, error, any) {}})
	require.Error(t, err)
	assert.IsType(t, &dpserrors.InvalidArgumentError{}, err)

	_, err = New(&fakeTransport{}, &Config{SecurityProvider: &fakeSecurityProvider{}})
	require.Error(t, err)
	assert.IsType(t, &dpserrors.InvalidArgumentError{}, err)
}

func TestRun_HappyPath_X509(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-1",
			Status:      StatusAssigning,
		},
		statusResponses: []*RegistrationOperationStatus{
			{OperationID: "op-1", Status: StatusAssigning},
			{
				OperationID: "op-1",
				Status:      StatusAssigned,
				RegistrationState: &RegistrationState{
					RegistrationID: "dev1",
					AssignedHub:    "myhub.azure-devices.net",
					DeviceID:       "dev1",
				},
			},
		},
	}
	provider := &fakeSecurityProvider{registrationID: "dev1", isX509: true}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: provider,
		Callback:         recordingCallback(&result, &callbackErr, &calls),
		UniqueIdentifier: "run-1",
	})

	err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, callbackErr)
	require.NotNil(t, result)
	assert.Equal(t, LifecycleAssigned, result.LifecycleStatus)
	assert.Equal(t, "myhub.azure-devices.net", result.AssignedHub)
	assert.Equal(t, "dev1", result.DeviceID)

	openCalls, closeCalls, registerCalls, statusCalls := transport.counts()
	assert.Equal(t, 1, openCalls)
	assert.Equal(t, 1, closeCalls)
	assert.Equal(t, 1, registerCalls)
	assert.Equal(t, 2, statusCalls)
}

func TestRun_HappyPath_TPM(t *testing.T) {
	key := []byte("activation-key-bytes")
	encodedKey := base64.StdEncoding.EncodeToString(key)

	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-2",
			Status:      StatusUnassigned,
		},
		statusResponses: []*RegistrationOperationStatus{
			{
				OperationID: "op-2",
				Status:      StatusAssigned,
				RegistrationState: &RegistrationState{
					RegistrationID: "tpm-dev",
					AssignedHub:    "myhub.azure-devices.net",
					DeviceID:       "tpm-dev",
					TPM:            &TPMState{AuthenticationKeyBase64: encodedKey},
				},
			},
		},
	}
	provider := &fakeTPMSecurityProvider{
		fakeSecurityProvider: fakeSecurityProvider{registrationID: "tpm-dev"},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: provider,
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, callbackErr)
	assert.Equal(t, 1, provider.activateCalls)
	assert.Equal(t, key, provider.activateKey)
	assert.Equal(t, LifecycleAssigned, result.LifecycleStatus)
}

func TestRun_ServiceFailure_WithErrorCode(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-3",
			Status:      StatusAssigning,
		},
		statusResponses: []*RegistrationOperationStatus{
			{
				OperationID: "op-3",
				Status:      StatusFailed,
				RegistrationState: &RegistrationState{
					ErrorMessage: "enrollment not found",
					ErrorCode:    404,
					HasErrorCode: true,
				},
			},
		},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, callbackErr)
	hubErr, ok := err.(*dpserrors.HubError)
	require.True(t, ok)
	assert.Equal(t, 404, hubErr.Code)
	assert.Equal(t, "enrollment not found", hubErr.Message)
	require.NotNil(t, result)
	assert.Equal(t, LifecycleFailed, result.LifecycleStatus)
}

func TestRun_DisabledEnrollment(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-4",
			Status:      StatusDisabled,
		},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, LifecycleDisabled, result.LifecycleStatus)

	// Disabled was returned directly from Register; Status must never be
	// called for a terminal result reached on the first response.
	_, _, _, statusCalls := transport.counts()
	assert.Equal(t, 0, statusCalls)
}

func TestRun_StatusTimeout(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-5",
			Status:      StatusAssigning,
		},
		statusDelay: time.Second,
		statusResponses: []*RegistrationOperationStatus{
			{OperationID: "op-5", Status: StatusAssigned},
		},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})
	d.statusTimeout = 20 * time.Millisecond

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.IsType(t, &dpserrors.TimeoutError{}, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, LifecycleError, result.LifecycleStatus)
}

func TestRun_AssignedWithoutHub(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID:       "op-6",
			Status:            StatusAssigned,
			RegistrationState: &RegistrationState{RegistrationID: "dev1"},
		},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.IsType(t, &dpserrors.AuthenticationFailureError{}, err)
	assert.Equal(t, LifecycleError, result.LifecycleStatus)
}

func TestRun_UnrecognizedStatusNeverDefaults(t *testing.T) {
	_, err := ParseProvisioningStatus("")
	require.Error(t, err)
	assert.IsType(t, &dpserrors.AuthenticationFailureError{}, err)

	_, err = ParseProvisioningStatus("quantum-superposition")
	require.Error(t, err)
	assert.IsType(t, &dpserrors.AuthenticationFailureError{}, err)
}

func TestRun_MissingOperationID(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			Status: StatusAssigning,
		},
	}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.IsType(t, &dpserrors.AuthenticationFailureError{}, err)
}

func TestRun_MalformedTPMKey(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-7",
			Status:      StatusAssigned,
			RegistrationState: &RegistrationState{
				AssignedHub: "myhub.azure-devices.net",
				DeviceID:    "tpm-dev",
				TPM:         &TPMState{AuthenticationKeyBase64: "not-valid-base64!!"},
			},
		},
	}
	provider := &fakeTPMSecurityProvider{fakeSecurityProvider: fakeSecurityProvider{registrationID: "tpm-dev"}}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: provider,
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.IsType(t, &dpserrors.AuthenticationFailureError{}, err)
	assert.Equal(t, 0, provider.activateCalls)
}

func TestRun_CallbackFiresExactlyOnceOnOpenFailure(t *testing.T) {
	transport := &fakeTransport{openErr: assertErr}

	var result *RegistrationResult
	var callbackErr error
	calls := 0

	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         recordingCallback(&result, &callbackErr, &calls),
	})

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	open, closeN, register, status := transport.counts()
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, closeN)
	assert.Equal(t, 0, register)
	assert.Equal(t, 0, status)
}

func TestRun_OnStatusTickObservesEveryPoll(t *testing.T) {
	transport := &fakeTransport{
		retryHint: time.Millisecond,
		registerResp: &RegistrationOperationStatus{
			OperationID: "op-8",
			Status:      StatusAssigning,
		},
		statusResponses: []*RegistrationOperationStatus{
			{OperationID: "op-8", Status: StatusAssigning},
			{
				OperationID: "op-8",
				Status:      StatusAssigned,
				RegistrationState: &RegistrationState{AssignedHub: "h", DeviceID: "d"},
			},
		},
	}

	var ticks []ProvisioningStatus
	d := newTestDPSM(t, transport, &Config{
		SecurityProvider: &fakeSecurityProvider{registrationID: "dev1"},
		Callback:         func(*RegistrationResult, error, any) {},
		OnStatusTick: func(s ProvisioningStatus) {
			ticks = append(ticks, s)
		},
	})

	_ = d.Run(context.Background())
	require.Len(t, ticks, 3)
	assert.Equal(t, StatusAssigning, ticks[0])
	assert.Equal(t, StatusAssigning, ticks[1])
	assert.Equal(t, StatusAssigned, ticks[2])
}

var assertErr = &dpserrors.TransportError{Op: "open", Err: context.DeadlineExceeded}
