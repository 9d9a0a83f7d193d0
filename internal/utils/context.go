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

package utils

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
)

func ContextWithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

func LoggerFromContext(ctx context.Context) logr.Logger {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		// Return the default logger as a fail-safe, but log
		// the failure to obtain the logger from the context.
		logger = DefaultLogger()
		logger.Error(err, "failed to get logger from context")
	}
	return logger
}

// LogValues is a slice of key/value pairs for use with logger.WithValues.
// It supports method chaining for a fluent API:
//
//	logger.WithValues(
//	    utils.LogValues{}.
//	        AddRunID(val).
//	        AddRegistrationID(val)...)
//
// This keeps the set of structured log keys evolvable in one place and
// gives every call site consistent values. Registration id, operation id,
// provisioning status and assigned hub are lowercased; run id, connection
// id and device id are kept as given.
type LogValues []any

// AddRunID adds the "run_id" key, the correlation id for a single DPSM run().
func (lv LogValues) AddRunID(value string) LogValues {
	return append(lv, "run_id", value)
}

// AddConnectionID adds the "connection_id" key.
func (lv LogValues) AddConnectionID(value string) LogValues {
	return append(lv, "connection_id", value)
}

// AddRegistrationID adds the "registration_id" key with the lowercased value.
func (lv LogValues) AddRegistrationID(value string) LogValues {
	return append(lv, "registration_id", strings.ToLower(value))
}

// AddOperationID adds the "operation_id" key with the lowercased value.
func (lv LogValues) AddOperationID(value string) LogValues {
	return append(lv, "operation_id", strings.ToLower(value))
}

// AddProvisioningStatus adds the "provisioning_status" key.
func (lv LogValues) AddProvisioningStatus(value string) LogValues {
	return append(lv, "provisioning_status", strings.ToLower(value))
}

// AddAssignedHub adds the "assigned_hub" key with the lowercased value.
func (lv LogValues) AddAssignedHub(value string) LogValues {
	return append(lv, "assigned_hub", strings.ToLower(value))
}

// AddDeviceID adds the "device_id" key.
func (lv LogValues) AddDeviceID(value string) LogValues {
	return append(lv, "device_id", value)
}
