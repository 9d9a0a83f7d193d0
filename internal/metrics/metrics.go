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

// Package metrics provides a Prometheus-backed provisioning.MetricsSink.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Azure/iot-provisioning-go/internal/provisioning"
)

const (
	attemptCounterName  = "dpsm_attempts_total"
	terminalCounterName = "dpsm_terminal_total"
	stepDurationName    = "dpsm_step_duration_seconds"
)

// Collector implements provisioning.MetricsSink with counters and
// histograms registered against a caller-supplied registerer.
type Collector struct {
	attempts         prometheus.Counter
	terminalByStatus *prometheus.CounterVec
	stepDuration     *prometheus.HistogramVec
}

// NewCollector registers the DPSM metrics against r and returns a
// Collector ready to pass to DPSM.WithMetricsSink.
func NewCollector(r prometheus.Registerer) *Collector {
	return &Collector{
		attempts: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: attemptCounterName,
			Help: "Total number of provisioning runs started.",
		}),
		terminalByStatus: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: terminalCounterName,
			Help: "Total number of provisioning runs reaching a terminal status, by status.",
		}, []string{"status"}),
		stepDuration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name:    stepDurationName,
			Help:    "Duration of individual Register/Status steps.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
	}
}

// ObserveAttempt implements provisioning.MetricsSink.
func (c *Collector) ObserveAttempt() {
	c.attempts.Inc()
}

// ObserveTerminal implements provisioning.MetricsSink.
func (c *Collector) ObserveTerminal(status provisioning.ProvisioningStatus) {
	c.terminalByStatus.WithLabelValues(status.String()).Inc()
}

// ObserveStepDuration implements provisioning.MetricsSink.
func (c *Collector) ObserveStepDuration(step string, d time.Duration) {
	c.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}
