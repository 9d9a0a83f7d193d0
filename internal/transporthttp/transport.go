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

// Package transporthttp is a reference provisioning.TransportContract
// implementation: registration PUT and status GET over plain HTTPS, with
// the inter-poll delay taken from the standard Retry-After response
// header.
package transporthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
	"github.com/Azure/iot-provisioning-go/internal/provisioning"
)

const defaultRetryHint = 2 * time.Second

// wireRegistrationState mirrors the JSON envelope the service sends back
// for both the registration and status endpoints.
type wireRegistrationState struct {
	RegistrationID         string `json:"registrationId"`
	AssignedHub            string `json:"assignedHub,omitempty"`
	DeviceID               string `json:"deviceId,omitempty"`
	Payload                json.RawMessage `json:"payload,omitempty"`
	Substatus              string `json:"substatus,omitempty"`
	CreatedDateTimeUTC     string `json:"createdDateTimeUtc,omitempty"`
	LastUpdatesDateTimeUTC string `json:"lastUpdatedDateTimeUtc,omitempty"`
	ETag                   string `json:"etag,omitempty"`
	ErrorMessage           string `json:"errorMessage,omitempty"`
	ErrorCode              *int   `json:"errorCode,omitempty"`
	TPM                    *struct {
		AuthenticationKey string `json:"authenticationKey"`
	} `json:"tpm,omitempty"`
}

type wireOperationStatus struct {
	OperationID           string                 `json:"operationId"`
	Status                string                 `json:"status"`
	RegistrationState     *wireRegistrationState `json:"registrationState,omitempty"`
}

// Transport implements provisioning.TransportContract against a DPS-style
// REST endpoint: PUT {endpoint}/{scopeID}/registrations/{registrationId}/register
// to register, GET .../registrations/operations/{operationId} to poll.
type Transport struct {
	client     *http.Client
	endpoint   string
	scopeID    string
	apiVersion string

	registrationID atomic.Value // string, set by Open

	retryHint atomic.Int64 // nanoseconds, defaultRetryHint until the service overrides it
}

// New constructs a Transport pointed at endpoint (e.g.
// "https://global.azure-devices-provisioning.net") and the enrollment
// group's scopeID. A nil client defaults to http.DefaultClient.
func New(client *http.Client, endpoint, scopeID, apiVersion string) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	t := &Transport{client: client, endpoint: endpoint, scopeID: scopeID, apiVersion: apiVersion}
	t.retryHint.Store(int64(defaultRetryHint))
	return t
}

// Open records the registration id for subsequent calls. TLS session
// reuse is handled by the underlying http.Client's transport, so there is
// no connection to establish here.
func (t *Transport) Open(ctx context.Context, req provisioning.RequestData) error {
	t.registrationID.Store(req.RegistrationID)
	return nil
}

// Close is a no-op; there is no persistent session to tear down.
func (t *Transport) Close(ctx context.Context) error {
	return nil
}

// RetryHint returns the most recently observed Retry-After value, or a
// fixed default before the first response arrives.
func (t *Transport) RetryHint() time.Duration {
	return time.Duration(t.retryHint.Load())
}

func (t *Transport) Register(ctx context.Context, authCtx *provisioning.AuthorizationCtx, payload []byte) (*provisioning.RegistrationOperationStatus, error) {
	registrationID, _ := t.registrationID.Load().(string)

	u := fmt.Sprintf("%s/%s/registrations/%s/register?api-version=%s", t.endpoint, t.scopeID, url.PathEscape(registrationID), t.apiVersion)

	body := bytes.NewBuffer(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, u, body)
	if err != nil {
		return nil, dpserrors.NewTransportError("register", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, dpserrors.NewTransportError("register", err)
	}
	defer resp.Body.Close()

	t.observeRetryAfter(resp)

	if resp.StatusCode >= 400 {
		return nil, dpserrors.NewTransportError("register", fmt.Errorf("unexpected status %s", resp.Status))
	}

	if sas := resp.Header.Get("Authorization"); sas != "" {
		authCtx.SetSASToken(sas)
	}

	var wire wireOperationStatus
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, dpserrors.NewTransportError("register", err)
	}

	return toOperationStatus(&wire)
}

func (t *Transport) QueryStatus(ctx context.Context, authCtx *provisioning.AuthorizationCtx, operationID string) (*provisioning.RegistrationOperationStatus, error) {
	u := fmt.Sprintf("%s/%s/registrations/operations/%s?api-version=%s", t.endpoint, t.scopeID, url.PathEscape(operationID), t.apiVersion)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, dpserrors.NewTransportError("status", err)
	}
	if authCtx.SASToken != "" {
		httpReq.Header.Set("Authorization", authCtx.SASToken)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, dpserrors.NewTransportError("status", err)
	}
	defer resp.Body.Close()

	t.observeRetryAfter(resp)

	if resp.StatusCode >= 400 {
		return nil, dpserrors.NewTransportError("status", fmt.Errorf("unexpected status %s", resp.Status))
	}

	var wire wireOperationStatus
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, dpserrors.NewTransportError("status", err)
	}

	return toOperationStatus(&wire)
}

// observeRetryAfter updates the transport's retry hint from the response's
// Retry-After header, when present and parseable as a whole-second count.
func (t *Transport) observeRetryAfter(resp *http.Response) {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	t.retryHint.Store(int64(time.Duration(seconds) * time.Second))
}

func toOperationStatus(wire *wireOperationStatus) (*provisioning.RegistrationOperationStatus, error) {
	status, err := provisioning.ParseProvisioningStatus(wire.Status)
	if err != nil {
		return nil, err
	}

	result := &provisioning.RegistrationOperationStatus{
		OperationID: wire.OperationID,
		Status:      status,
	}

	if wire.RegistrationState != nil {
		state := &provisioning.RegistrationState{
			RegistrationID:         wire.RegistrationState.RegistrationID,
			AssignedHub:            wire.RegistrationState.AssignedHub,
			DeviceID:               wire.RegistrationState.DeviceID,
			Payload:                wire.RegistrationState.Payload,
			Substatus:              wire.RegistrationState.Substatus,
			CreatedDateTimeUTC:     wire.RegistrationState.CreatedDateTimeUTC,
			LastUpdatesDateTimeUTC: wire.RegistrationState.LastUpdatesDateTimeUTC,
			ETag:                   wire.RegistrationState.ETag,
			ErrorMessage:           wire.RegistrationState.ErrorMessage,
		}
		if wire.RegistrationState.ErrorCode != nil {
			state.ErrorCode = *wire.RegistrationState.ErrorCode
			state.HasErrorCode = true
		}
		if wire.RegistrationState.TPM != nil {
			state.TPM = &provisioning.TPMState{AuthenticationKeyBase64: wire.RegistrationState.TPM.AuthenticationKey}
		}
		result.RegistrationState = state
	}

	return result, nil
}
