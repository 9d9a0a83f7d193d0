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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Azure/iot-provisioning-go/internal/dpserrors"
	"github.com/Azure/iot-provisioning-go/internal/metrics"
	"github.com/Azure/iot-provisioning-go/internal/provisioning"
	"github.com/Azure/iot-provisioning-go/internal/security/symmetrickey"
	"github.com/Azure/iot-provisioning-go/internal/security/tpmsim"
	"github.com/Azure/iot-provisioning-go/internal/transporthttp"
	"github.com/Azure/iot-provisioning-go/internal/utils"
)

type DPSRootCmdFlags struct {
	Endpoint              string
	ScopeID               string
	APIVersion            string
	RegistrationID        string
	SymmetricKeyBase64    string
	UseTPMSimulator       bool
	MetricsListenAddress  string
	LogVerbosity          int
}

func (f *DPSRootCmdFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Endpoint, "endpoint", f.Endpoint, "Device Provisioning Service global endpoint")
	cmd.Flags().StringVar(&f.ScopeID, "scope-id", f.ScopeID, "Enrollment group ID scope")
	cmd.Flags().StringVar(&f.APIVersion, "api-version", f.APIVersion, "DPS REST api-version")
	cmd.Flags().StringVar(&f.RegistrationID, "registration-id", f.RegistrationID, "Device registration id")
	cmd.Flags().StringVar(&f.SymmetricKeyBase64, "symmetric-key", f.SymmetricKeyBase64, "Base64-encoded symmetric enrollment key. Mutually exclusive with --tpm-simulator")
	cmd.Flags().BoolVar(&f.UseTPMSimulator, "tpm-simulator", f.UseTPMSimulator, "Authenticate with an in-memory simulated TPM instead of a symmetric key")
	cmd.Flags().StringVar(&f.MetricsListenAddress, "metrics-listen-address", f.MetricsListenAddress, "Address on which to expose Prometheus metrics. Empty disables the metrics server")
	cmd.Flags().IntVar(&f.LogVerbosity, "log-verbosity", f.LogVerbosity, "Log verbosity. 0 is the default verbosity level, equivalent to INFO. It must be a value >= 0, where a higher value means more verbose output.")

	cmd.MarkFlagsMutuallyExclusive("symmetric-key", "tpm-simulator")
}

func (f *DPSRootCmdFlags) validate() error {
	if len(f.Endpoint) == 0 {
		return utils.TrackError(fmt.Errorf("--endpoint is required"))
	}
	if len(f.ScopeID) == 0 {
		return utils.TrackError(fmt.Errorf("--scope-id is required"))
	}
	if len(f.APIVersion) == 0 {
		return utils.TrackError(fmt.Errorf("--api-version is required"))
	}
	if len(f.RegistrationID) == 0 {
		return utils.TrackError(fmt.Errorf("--registration-id is required"))
	}
	if len(f.SymmetricKeyBase64) == 0 && !f.UseTPMSimulator {
		return utils.TrackError(fmt.Errorf("one of --symmetric-key or --tpm-simulator is required"))
	}
	if f.LogVerbosity < 0 {
		return utils.TrackError(fmt.Errorf("--log-verbosity must be a value >= 0"))
	}
	return nil
}

// runOptions is what flags resolve into once validated: everything
// RunRootCmd needs to construct and run a DPSM.
type runOptions struct {
	transport            provisioning.TransportContract
	securityProvider     provisioning.SecurityProvider
	metricsListenAddress string
	metricsSink          provisioning.MetricsSink
}

func (f *DPSRootCmdFlags) toRunOptions() (*runOptions, error) {
	if err := f.validate(); err != nil {
		return nil, utils.TrackError(fmt.Errorf("failed to validate flags: %w", err))
	}

	transport := transporthttp.New(nil, f.Endpoint, f.ScopeID, f.APIVersion)

	var provider provisioning.SecurityProvider
	if f.UseTPMSimulator {
		tpmProvider, err := tpmsim.New(f.RegistrationID)
		if err != nil {
			return nil, utils.TrackError(fmt.Errorf("failed to create TPM simulator: %w", err))
		}
		provider = tpmProvider
	} else {
		keyProvider, err := symmetrickey.New(f.RegistrationID, f.SymmetricKeyBase64)
		if err != nil {
			return nil, utils.TrackError(fmt.Errorf("failed to create symmetric key provider: %w", err))
		}
		provider = keyProvider
	}

	return &runOptions{
		transport:            transport,
		securityProvider:     provider,
		metricsListenAddress: f.MetricsListenAddress,
	}, nil
}

func NewDPSRootCmdFlags() *DPSRootCmdFlags {
	return &DPSRootCmdFlags{
		Endpoint:             os.Getenv("DPS_ENDPOINT"),
		ScopeID:              os.Getenv("DPS_SCOPE_ID"),
		APIVersion:           "2019-03-31",
		MetricsListenAddress: "",
		LogVerbosity:         0,
	}
}

func NewCmdRoot() *cobra.Command {
	processName := filepath.Base(os.Args[0])
	flags := NewDPSRootCmdFlags()

	cmd := &cobra.Command{
		Use:   processName,
		Args:  cobra.NoArgs,
		Short: "Device Provisioning Service client",
		Long: fmt.Sprintf(`Device Provisioning Service client

	Runs a single device through the register/poll/assign handshake against
	the Device Provisioning Service and reports the outcome.

	%s --endpoint https://global.azure-devices-provisioning.net \
		--scope-id 0ne00000000 --api-version 2019-03-31 \
		--registration-id device1 --symmetric-key base64key==
`, processName),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RunRootCmd(cmd, flags); err != nil {
				return utils.TrackError(fmt.Errorf("failed to run: %w", err))
			}
			return nil
		},
		SilenceErrors: true,
	}

	cmd.SetErrPrefix(cmd.Short + " error:")
	flags.AddFlags(cmd)

	return cmd
}

func RunRootCmd(cmd *cobra.Command, flags *DPSRootCmdFlags) error {
	opts, err := flags.toRunOptions()
	if err != nil {
		return err
	}

	// logr's V(n) maps to slog level -n, so verbosity n enables V(0)..V(n).
	logger := logr.FromSlogHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(-flags.LogVerbosity),
	}))

	group, ctx := errgroup.WithContext(context.Background())

	var srv *http.Server
	if opts.metricsListenAddress != "" {
		collector := metrics.NewCollector(prometheus.DefaultRegisterer)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: opts.metricsListenAddress, Handler: mux}

		group.Go(func() error {
			logger.Info(fmt.Sprintf("metrics server listening on %s", opts.metricsListenAddress))
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})

		opts.metricsSink = collector
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("caught interrupt signal")
		if srv != nil {
			_ = srv.Close()
		}
	}()

	var regErr error
	group.Go(func() error {
		defer stop()
		regErr = runOnce(utils.ContextWithLogger(ctx, logger), logger, flags.RegistrationID, opts)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	return regErr
}

func runOnce(ctx context.Context, logger logr.Logger, registrationID string, opts *runOptions) error {
	var result *provisioning.RegistrationResult
	var regErr error
	done := make(chan struct{})

	config := &provisioning.Config{
		SecurityProvider: opts.securityProvider,
		UniqueIdentifier: registrationID,
		Callback: func(r *provisioning.RegistrationResult, err error, userContext any) {
			result, regErr = r, err
			close(done)
		},
	}

	dpsm, err := provisioning.New(opts.transport, config)
	if err != nil {
		return err
	}
	if opts.metricsSink != nil {
		dpsm.WithMetricsSink(opts.metricsSink)
	}

	if err := dpsm.Run(ctx); err != nil {
		var hubErr *dpserrors.HubError
		if errors.As(err, &hubErr) {
			logger.Error(err, "registration reached a terminal failure", "code", hubErr.Code)
		} else {
			logger.Error(err, "registration failed")
		}
	}

	<-done
	if result != nil {
		logger.Info("registration finished", "lifecycle_status", result.LifecycleStatus.String(), "assigned_hub", result.AssignedHub)
	}

	return regErr
}
