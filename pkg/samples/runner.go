package samples

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/sentilo/sentilo-samples/pkg/config"
	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
	"github.com/sentilo/sentilo-samples/pkg/memory"
	"github.com/sentilo/sentilo-samples/pkg/platform"
	"github.com/sentilo/sentilo-samples/pkg/server"
)

// Option is a functional option for configuring Runner instances.
type Option func(*Runner)

// WithClock sets the clock used to timestamp observations.
func WithClock(c clock.PassiveClock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithMemoryReader sets the source of memory statistics.
func WithMemoryReader(m memory.Reader) Option {
	return func(r *Runner) {
		if m != nil {
			r.memory = m
		}
	}
}

// WithLineBreak sets the separator between lines of the memory report and
// between an error text and its parse error.
func WithLineBreak(sep string) Option {
	return func(r *Runner) {
		r.lineBreak = sep
	}
}

// Runner executes the sample against a platform.
type Runner struct {
	cfg       config.Samples
	catalog   platform.CatalogOps
	data      platform.DataOps
	clock     clock.PassiveClock
	memory    memory.Reader
	lineBreak string
}

// NewRunner creates a Runner for cfg that talks to the platform through
// catalog and data.
func NewRunner(cfg config.Samples, catalog platform.CatalogOps, data platform.DataOps, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		catalog:   catalog,
		data:      data,
		clock:     clock.RealClock{},
		memory:    memory.RuntimeReader{},
		lineBreak: memory.LineBreak,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the sample once and returns its outcome. It never fails:
// platform errors are reported in the outcome.
func (r *Runner) Run(ctx context.Context) *Outcome {
	now := r.clock.Now()
	defer func() {
		samplesRunDuration.Observe(r.clock.Since(now).Seconds())
	}()

	cfg := r.cfg
	requestID := server.RequestID(ctx)

	slog.Info("starting samples execution",
		"requestId", requestID,
		"provider", cfg.Provider,
		"component", cfg.Component,
		"sensor", cfg.Sensor,
	)

	observations := memory.Report(r.memory.Read(), r.lineBreak)
	slog.Info("observation values", "observations", observations)

	err := r.ensureSensorRegistered(ctx, cfg.IdentityKey, cfg.Provider, cfg.Component, cfg.Sensor)
	if err == nil {
		err = r.publishObservation(ctx, cfg.IdentityKey, cfg.Provider, cfg.Component, cfg.Sensor, observations, now)
	}

	if err != nil {
		code := sserrors.CodeOf(err)
		slog.Error("error publishing sensor observations", "requestId", requestID, "code", code, "error", err)
		samplesRunTotal.WithLabelValues("error", string(code)).Inc()
	} else {
		samplesRunTotal.WithLabelValues("success", "").Inc()
	}

	slog.Info("samples execution ended", "requestId", requestID)

	return r.newOutcome(observations, err, now)
}

// ensureSensorRegistered queries the provider catalog and registers the
// sensor when no provider lists it.
func (r *Runner) ensureSensorRegistered(ctx context.Context, identityToken, providerID, componentID, sensorID string) error {
	query := r.catalogMessage(identityToken, providerID, componentID, sensorID)

	out, err := r.catalog.GetSensors(ctx, query)
	if err != nil {
		return err
	}

	if containsSensor(out, sensorID) {
		slog.Debug("sensor already registered", "provider", providerID, "sensor", sensorID)
		return nil
	}

	slog.Info("registering sensor", "provider", providerID, "component", componentID, "sensor", sensorID)
	if err := r.catalog.RegisterSensors(ctx, r.catalogMessage(identityToken, providerID, componentID, sensorID)); err != nil {
		return err
	}
	samplesSensorRegisteredTotal.Inc()
	return nil
}

// publishObservation sends value as a single observation of sensorID.
func (r *Runner) publishObservation(ctx context.Context, identityToken, providerID, componentID, sensorID, value string, ts time.Time) error {
	msg := &platform.DataInputMessage{
		IdentityToken: identityToken,
		ProviderID:    providerID,
		SensorID:      sensorID,
		SensorObservations: platform.SensorObservations{
			Sensor:       sensorID,
			Observations: []platform.Observation{{Value: value, Timestamp: ts}},
		},
	}

	slog.Debug("sending observation", "provider", providerID, "component", componentID, "sensor", sensorID)
	return r.data.SendObservations(ctx, msg)
}

func (r *Runner) catalogMessage(identityToken, providerID, componentID, sensorID string) *platform.CatalogInputMessage {
	return &platform.CatalogInputMessage{
		IdentityToken: identityToken,
		ProviderID:    providerID,
		Components:    r.components(componentID),
		Sensors:       r.sensors(providerID, componentID, sensorID),
	}
}

func (r *Runner) components(componentID string) []platform.CatalogComponent {
	return []platform.CatalogComponent{{
		Component:     componentID,
		ComponentType: r.cfg.ComponentType,
		Location:      r.cfg.ComponentLocation,
	}}
}

func (r *Runner) sensors(providerID, componentID string, sensorIDs ...string) []platform.CatalogSensor {
	list := make([]platform.CatalogSensor, 0, len(sensorIDs))
	for _, id := range sensorIDs {
		list = append(list, platform.CatalogSensor{
			Sensor:    id,
			Provider:  providerID,
			Component: componentID,
			Type:      r.cfg.SensorType,
			DataType:  r.cfg.SensorDataType,
			Location:  r.cfg.SensorLocation,
		})
	}
	return list
}

// containsSensor reports whether any provider in out lists sensorID.
func containsSensor(out *platform.CatalogOutputMessage, sensorID string) bool {
	if out == nil {
		return false
	}
	for _, p := range out.Providers {
		for _, s := range p.Sensors {
			slog.Debug("retrieved sensor", "component", s.Component, "sensor", s.Sensor)
			if s.Sensor == sensorID {
				return true
			}
		}
	}
	return false
}
