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

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
)

// newRegisterStep binds a one-shot Register call: submit the registration
// request through the transport and validate the parsed reply. The
// transport is responsible for writing any SAS/derived credential material
// back into authCtx as it authenticates the call, so the first StatusStep
// can reuse it.
func newRegisterStep(transport TransportContract, authCtx *AuthorizationCtx, payload []byte) stepFunc {
	return func(ctx context.Context) (*RegistrationOperationStatus, error) {
		status, err := transport.Register(ctx, authCtx, payload)
		if err != nil {
			return nil, err
		}
		if status == nil {
			return nil, dpserrors.NewAuthenticationFailureError("missing registration response")
		}
		if status.OperationID == "" {
			return nil, dpserrors.NewAuthenticationFailureError("missing operationId in registration response")
		}
		return status, nil
	}
}

// newStatusStep binds a one-shot Status call: query the given operation id
// and validate the parsed reply. It authenticates using the
// AuthorizationCtx RegisterStep populated.
func newStatusStep(transport TransportContract, authCtx *AuthorizationCtx, operationID string) stepFunc {
	return func(ctx context.Context) (*RegistrationOperationStatus, error) {
		status, err := transport.QueryStatus(ctx, authCtx, operationID)
		if err != nil {
			return nil, err
		}
		if status == nil {
			return nil, dpserrors.NewAuthenticationFailureError("missing status response")
		}
		return status, nil
	}
}
