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
	"time"
)

// RequestData is what the driver hands to transport.Open.
type RequestData struct {
	RegistrationID string
	SSLContext     any
	IsX509         bool
	// Payload is the optional registration payload the config carries.
	// May be empty.
	Payload []byte
}

// TransportContract is the external transport collaborator the DPSM
// consumes. Its wire serialization, protocol (MQTT/AMQP/HTTP) and retry
// cadence policy are out of this package's scope; the DPSM only calls
// these five methods.
type TransportContract interface {
	// Open establishes a session. May block. Failure aborts the run.
	Open(ctx context.Context, req RequestData) error

	// Close idempotently tears the session down. Must not error on a
	// transport that was never opened.
	Close(ctx context.Context) error

	// RetryHint returns the service-suggested inter-poll delay. Called
	// before every status attempt, including the first one.
	RetryHint() time.Duration

	// Register submits the registration request and returns the parsed
	// operation status. Envelope parsing (JSON, CBOR, ...) is entirely the
	// transport's concern; RegisterStep only validates the parsed shape.
	Register(ctx context.Context, authCtx *AuthorizationCtx, payload []byte) (*RegistrationOperationStatus, error)

	// QueryStatus polls the given operation id and returns the parsed
	// operation status.
	QueryStatus(ctx context.Context, authCtx *AuthorizationCtx, operationID string) (*RegistrationOperationStatus, error)
}
