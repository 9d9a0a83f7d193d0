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
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
	"github.com/Azure/iot-provisioning-go/internal/utils"
)

// The Register ceiling is generous by design. The Status ceiling applies
// to each individual poll attempt, not the loop as a whole.
const (
	registerTimeout = 1_000_000 * time.Millisecond
	statusTimeout   = 10_000 * time.Millisecond
)

const pendingConnectionID = "PendingConnectionId"

// DPSM drives a single device through the register/poll/assign handshake.
// Everything it owns is created in New and torn down when Run returns; a
// DPSM must not be reused across two calls to Run.
type DPSM struct {
	transport TransportContract
	config    *Config

	clock           clock.Clock
	registerTimeout time.Duration
	statusTimeout   time.Duration
	metricsSink     MetricsSink
}

// MetricsSink receives optional operational counters. A nil sink is a
// no-op; internal/metrics provides a Prometheus-backed implementation.
type MetricsSink interface {
	ObserveAttempt()
	ObserveTerminal(status ProvisioningStatus)
	ObserveStepDuration(step string, d time.Duration)
}

// New constructs a DPSM bound to transport and config. Construction fails
// with dpserrors.InvalidArgumentError if transport, config, the security
// provider, or the registration callback is absent.
func New(transport TransportContract, config *Config) (*DPSM, error) {
	if transport == nil {
		return nil, dpserrors.NewInvalidArgumentError("transport", "must not be nil")
	}
	if config == nil {
		return nil, dpserrors.NewInvalidArgumentError("config", "must not be nil")
	}
	if config.SecurityProvider == nil {
		return nil, dpserrors.NewInvalidArgumentError("config.SecurityProvider", "must not be nil")
	}
	if config.Callback == nil {
		return nil, dpserrors.NewInvalidArgumentError("config.Callback", "must not be nil")
	}

	return &DPSM{
		transport:       transport,
		config:          config,
		clock:           clock.RealClock{},
		registerTimeout: registerTimeout,
		statusTimeout:   statusTimeout,
	}, nil
}

// WithMetricsSink attaches an optional metrics sink, returning d for
// chaining. Must be called before Run.
func (d *DPSM) WithMetricsSink(sink MetricsSink) *DPSM {
	d.metricsSink = sink
	return d
}

// Run executes the full state machine exactly once. The registration
// callback fires exactly once before Run returns, regardless of outcome.
// The returned error mirrors what was delivered to the callback and is
// nil on a successful ASSIGNED outcome; callers that only care about the
// callback may ignore it.
func (d *DPSM) Run(ctx context.Context) (err error) {
	logger := utils.LoggerFromContext(ctx)
	exec := newStepExecutor()
	authCtx := NewAuthorizationCtx()

	logger = logger.WithValues(utils.LogValues{}.
		AddRunID(d.config.UniqueIdentifier).
		AddRegistrationID(d.config.SecurityProvider.RegistrationID())...)

	hostname, hostErr := os.Hostname()
	if hostErr != nil {
		hostname = "unknown-host"
	}
	logger.V(1).Info("provisioning task starting", "thread_name", d.threadName(hostname, pendingConnectionID))

	var (
		result *RegistrationResult
		regErr error
	)

	defer func() {
		exec.shutdownNow()
		if closeErr := d.transport.Close(context.Background()); closeErr != nil {
			logger.Error(closeErr, "transport close failed")
		}
		d.config.Callback(result, regErr, d.config.UserContext)
		err = regErr
	}()

	if d.metricsSink != nil {
		d.metricsSink.ObserveAttempt()
	}

	req := RequestData{
		RegistrationID: d.config.SecurityProvider.RegistrationID(),
		SSLContext:     d.config.SecurityProvider.SSLContext(),
		IsX509:         d.config.SecurityProvider.IsX509(),
		Payload:        d.config.Payload,
	}
	if err := d.transport.Open(ctx, req); err != nil {
		result, regErr = d.errorResult(dpserrors.NewTransportError("open", err))
		return
	}

	connectionID := uuid.NewString()
	logger = logger.WithValues("connection_id", connectionID)
	logger.V(1).Info("provisioning task connected", "thread_name", d.threadName(hostname, connectionID))

	registerStart := d.clock.Now()
	registerResp, err := exec.submit(ctx, "register", d.registerTimeout, newRegisterStep(d.transport, authCtx, d.config.Payload))
	d.observeStepDuration("register", registerStart)
	if err != nil {
		result, regErr = d.errorResult(err)
		return
	}
	d.tick(registerResp.Status)

	currentStatus := registerResp.Status
	currentOperationID := registerResp.OperationID
	currentState := registerResp.RegistrationState

	for currentStatus == StatusUnassigned || currentStatus == StatusAssigning {
		if err := d.sleep(ctx, d.transport.RetryHint()); err != nil {
			result, regErr = d.errorResult(dpserrors.NewTransportError("retry-sleep", err))
			return
		}

		statusStart := d.clock.Now()
		statusResp, err := exec.submit(ctx, "status", d.statusTimeout, newStatusStep(d.transport, authCtx, currentOperationID))
		d.observeStepDuration("status", statusStart)
		if err != nil {
			result, regErr = d.errorResult(err)
			return
		}

		currentStatus = statusResp.Status
		currentState = statusResp.RegistrationState
		d.tick(currentStatus)
	}

	if d.metricsSink != nil {
		d.metricsSink.ObserveTerminal(currentStatus)
	}

	switch currentStatus {
	case StatusAssigned:
		result, regErr = d.handleAssigned(ctx, currentState)
	case StatusFailed:
		result, regErr = d.handleTerminalFailure(currentState, LifecycleFailed)
	case StatusDisabled:
		result, regErr = d.handleTerminalFailure(currentState, LifecycleDisabled)
	default:
		result, regErr = d.errorResult(dpserrors.NewAuthenticationFailureError(fmt.Sprintf("unexpected terminal status %s", currentStatus)))
	}

	return
}

func (d *DPSM) handleAssigned(ctx context.Context, state *RegistrationState) (*RegistrationResult, error) {
	if state == nil || state.AssignedHub == "" || state.DeviceID == "" {
		return d.errorResult(dpserrors.NewAuthenticationFailureError("assigned without hub or device id"))
	}

	if activator, ok := asTPMActivator(d.config.SecurityProvider); ok {
		if state.TPM == nil || state.TPM.AuthenticationKeyBase64 == "" {
			return d.errorResult(dpserrors.NewAuthenticationFailureError("assigned without TPM authentication key"))
		}
		key, err := base64.StdEncoding.DecodeString(state.TPM.AuthenticationKeyBase64)
		if err != nil {
			return d.errorResult(dpserrors.NewAuthenticationFailureError("TPM authentication key is not valid base64"))
		}
		if err := activator.ActivateIdentityKey(ctx, key); err != nil {
			return d.errorResult(dpserrors.NewSecurityProviderError("activateIdentityKey", err))
		}
	}

	return &RegistrationResult{
		AssignedHub:            state.AssignedHub,
		DeviceID:               state.DeviceID,
		Payload:                state.Payload,
		LifecycleStatus:        LifecycleAssigned,
		RegistrationID:         state.RegistrationID,
		Substatus:              state.Substatus,
		CreatedDateTimeUTC:     state.CreatedDateTimeUTC,
		LastUpdatesDateTimeUTC: state.LastUpdatesDateTimeUTC,
		ETag:                   state.ETag,
	}, nil
}

func (d *DPSM) handleTerminalFailure(state *RegistrationState, lifecycle LifecycleStatus) (*RegistrationResult, error) {
	message := "registration did not complete"
	code := 0
	hasCode := false
	var registrationID, substatus, created, updated, etag string
	if state != nil {
		if state.ErrorMessage != "" {
			message = state.ErrorMessage
		}
		code = state.ErrorCode
		hasCode = state.HasErrorCode
		registrationID, substatus, created, updated, etag = state.RegistrationID, state.Substatus, state.CreatedDateTimeUTC, state.LastUpdatesDateTimeUTC, state.ETag
	}

	result := &RegistrationResult{
		LifecycleStatus:        lifecycle,
		RegistrationID:         registrationID,
		Substatus:              substatus,
		CreatedDateTimeUTC:     created,
		LastUpdatesDateTimeUTC: updated,
		ETag:                   etag,
	}
	return result, dpserrors.NewHubError(message, code, hasCode)
}

// errorResult builds the generic Error-lifecycle failure result for every
// error category other than FAILED/DISABLED.
func (d *DPSM) errorResult(err error) (*RegistrationResult, error) {
	return &RegistrationResult{LifecycleStatus: LifecycleError}, err
}

func (d *DPSM) tick(status ProvisioningStatus) {
	if d.config.OnStatusTick != nil {
		d.config.OnStatusTick(status)
	}
}

func (d *DPSM) observeStepDuration(step string, start time.Time) {
	if d.metricsSink != nil {
		d.metricsSink.ObserveStepDuration(step, d.clock.Since(start))
	}
}

// sleep blocks for dur or until ctx is canceled, whichever comes first. A
// zero or negative dur returns immediately without sleeping at all, the
// one case where the "sleep even before the first poll" rule does not
// apply.
func (d *DPSM) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	timer := d.clock.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// threadName builds the observability descriptor as a structured log
// value rather than an OS thread rename.
func (d *DPSM) threadName(hostname, connectionID string) string {
	return fmt.Sprintf("%s-%s-Cxn%s-azure-iot-sdk-ProvisioningTask", hostname, d.config.UniqueIdentifier, connectionID)
}
