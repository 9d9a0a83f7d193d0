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

// Package provisioning implements the Device Provisioning State Machine
// (DPSM): the protocol-level orchestrator that drives a device through the
// register/poll/assign handshake against the Device Provisioning Service.
package provisioning

import (
	"fmt"
	"strings"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
)

// ProvisioningStatus is the closed set of wire values the service reports
// for a registration operation.
type ProvisioningStatus int

const (
	StatusUnassigned ProvisioningStatus = iota
	StatusAssigning
	StatusAssigned
	StatusFailed
	StatusDisabled
)

func (s ProvisioningStatus) String() string {
	switch s {
	case StatusUnassigned:
		return "unassigned"
	case StatusAssigning:
		return "assigning"
	case StatusAssigned:
		return "assigned"
	case StatusFailed:
		return "failed"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the poll loop.
func (s ProvisioningStatus) Terminal() bool {
	switch s {
	case StatusAssigned, StatusFailed, StatusDisabled:
		return true
	default:
		return false
	}
}

// ParseProvisioningStatus parses a wire status string. An unrecognized or
// empty value is always an error; there is no default status.
func ParseProvisioningStatus(raw string) (ProvisioningStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unassigned":
		return StatusUnassigned, nil
	case "assigning":
		return StatusAssigning, nil
	case "assigned":
		return StatusAssigned, nil
	case "failed":
		return StatusFailed, nil
	case "disabled":
		return StatusDisabled, nil
	default:
		return 0, dpserrors.NewAuthenticationFailureError(fmt.Sprintf("invalid status %q", raw))
	}
}

// LifecycleStatus is the driver-internal coarse state surfaced to the
// embedder through RegistrationResult.
type LifecycleStatus int

const (
	LifecycleUnauthenticated LifecycleStatus = iota
	LifecycleAuthenticated
	LifecycleAssigning
	LifecycleAssigned
	LifecycleFailed
	LifecycleDisabled
	LifecycleError
)

func (l LifecycleStatus) String() string {
	switch l {
	case LifecycleUnauthenticated:
		return "unauthenticated"
	case LifecycleAuthenticated:
		return "authenticated"
	case LifecycleAssigning:
		return "assigning"
	case LifecycleAssigned:
		return "assigned"
	case LifecycleFailed:
		return "failed"
	case LifecycleDisabled:
		return "disabled"
	case LifecycleError:
		return "error"
	default:
		return "unknown"
	}
}

// TPMState carries the TPM-specific fields of a RegistrationState.
type TPMState struct {
	// AuthenticationKeyBase64 is the base64-encoded activation key DPS
	// issues on ASSIGNED for TPM-enrolled devices. It is decoded by the
	// driver, never by the transport.
	AuthenticationKeyBase64 string
}

// RegistrationState is the nested record carried by a
// RegistrationOperationStatus once the service has something to report
// about the registration itself.
type RegistrationState struct {
	RegistrationID         string
	AssignedHub            string
	DeviceID               string
	Payload                []byte
	Substatus              string
	CreatedDateTimeUTC     string
	LastUpdatesDateTimeUTC string
	ETag                   string
	ErrorMessage           string
	ErrorCode              int
	HasErrorCode           bool
	TPM                    *TPMState
}

// RegistrationOperationStatus is what RegisterStep and StatusStep parse out
// of a service reply.
type RegistrationOperationStatus struct {
	OperationID       string
	Status            ProvisioningStatus
	RegistrationState *RegistrationState
}

// RegistrationResult is what the user's RegistrationCallback receives.
// For non-ASSIGNED terminals the hub/device/payload fields are left empty
// and LifecycleStatus encodes the reason.
type RegistrationResult struct {
	AssignedHub     string
	DeviceID        string
	Payload         []byte
	LifecycleStatus LifecycleStatus

	RegistrationID         string
	Substatus              string
	CreatedDateTimeUTC     string
	LastUpdatesDateTimeUTC string
	ETag                   string
}
