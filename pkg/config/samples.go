package config

import (
	"fmt"
	"time"

	"github.com/sentilo/sentilo-samples/pkg/defaults"
)

const (
	// DefaultHost is the platform API endpoint used when rest.client.host is unset.
	DefaultHost = defaults.PlatformHost

	// DefaultTimeout bounds each platform request when rest.client.timeout is unset.
	DefaultTimeout = defaults.PlatformRequestTimeout
)

// Samples is the typed, immutable view of the properties used by one sample
// execution. It is built once at startup and shared by value.
type Samples struct {
	// Identifiers. These must exist on the platform catalog before the sample
	// runs; at least the identity token and the provider must be declared.
	IdentityKey string
	Provider    string
	Component   string
	Sensor      string

	// Descriptive catalog fields.
	ComponentType     string
	ComponentLocation string
	SensorType        string
	SensorDataType    string
	SensorLocation    string

	// Platform endpoint.
	Host    string
	Timeout time.Duration
}

// NewSamples builds a Samples view from p. Missing identifiers and descriptors
// are passed through as empty strings. Only the timeout is parsed.
func NewSamples(p Properties) (Samples, error) {
	s := Samples{
		IdentityKey:       p.Get(KeyIdentityKey),
		Provider:          p.Get(KeyProvider),
		Component:         p.Get(KeyComponent),
		Sensor:            p.Get(KeySensor),
		ComponentType:     p.Get(KeyComponentType),
		ComponentLocation: p.Get(KeyComponentLocation),
		SensorType:        p.Get(KeySensorType),
		SensorDataType:    p.Get(KeySensorDataType),
		SensorLocation:    p.Get(KeySensorLocation),
		Host:              p.Get(KeyHost),
		Timeout:           DefaultTimeout,
	}

	if s.Host == "" {
		s.Host = DefaultHost
	}

	if v := p.Get(KeyTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Samples{}, fmt.Errorf("invalid %s %q: %w", KeyTimeout, v, err)
		}
		if d <= 0 {
			return Samples{}, fmt.Errorf("invalid %s %q: must be positive", KeyTimeout, v)
		}
		s.Timeout = d
	}

	return s, nil
}
