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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
)

// stepExecutorPoolSize gives headroom to submit-and-await a step while a
// retry submission is in flight, never parallel step execution. The
// driver only ever has one step outstanding at a time.
const stepExecutorPoolSize = 2

// stepFunc is the shape of both RegisterStep and StatusStep once bound to
// their arguments: a single blocking call returning a parsed operation
// status or an error.
type stepFunc func(ctx context.Context) (*RegistrationOperationStatus, error)

// stepExecutor runs steps on a small worker pool and enforces a
// per-submission deadline: a cancellable timed await around a goroutine,
// with a semaphore limiting concurrent step goroutines to
// stepExecutorPoolSize.
type stepExecutor struct {
	sem        chan struct{}
	wg         sync.WaitGroup
	cancelFunc atomic.Value // func()
}

func newStepExecutor() *stepExecutor {
	return &stepExecutor{sem: make(chan struct{}, stepExecutorPoolSize)}
}

type stepResult struct {
	status *RegistrationOperationStatus
	err    error
}

// submit runs fn under a deadline of timeout, relative to ctx. It returns
// a TimeoutError if fn has not completed by the deadline, and a
// TransportError wrapping the cancellation cause if ctx or shutdownNow
// cancels the step first; in both cases fn's goroutine
// is left to observe ctx cancellation and unwind on its own (fn is
// expected to be built from a context-aware transport call).
func (e *stepExecutor) submit(ctx context.Context, name string, timeout time.Duration, fn stepFunc) (*RegistrationOperationStatus, error) {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, dpserrors.NewTransportError(name, ctx.Err())
	}

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	e.cancelFunc.Store(cancel)

	resultCh := make(chan stepResult, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() { <-e.sem }()
		status, err := fn(stepCtx)
		resultCh <- stepResult{status: status, err: err}
	}()

	select {
	case res := <-resultCh:
		cancel()
		return res.status, res.err
	case <-stepCtx.Done():
		ctxErr := stepCtx.Err()
		cancel()
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, dpserrors.NewTimeoutError(name)
		}
		return nil, dpserrors.NewTransportError(name, ctxErr)
	}
}

// shutdownNow cancels whatever step context is currently outstanding. It
// does not block waiting for the step goroutine to observe cancellation;
// the executor and everything it owns is discarded when run() returns.
func (e *stepExecutor) shutdownNow() {
	if cancel, ok := e.cancelFunc.Load().(context.CancelFunc); ok && cancel != nil {
		cancel()
	}
}
